// Package errors provides structured error handling for the application
// Following enterprise patterns for error management and observability
package errors

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes for the engine's failure taxonomy
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternal              ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError         ErrorCode = "DATABASE_ERROR"
	CodeDependencyUnavailable ErrorCode = "DEPENDENCY_UNAVAILABLE"

	// Concurrency errors
	CodeIntegrityConflict ErrorCode = "INTEGRITY_CONFLICT"

	// Business logic errors
	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodeRecipeNotFound    ErrorCode = "RECIPE_NOT_FOUND"
	CodePlanNotFound      ErrorCode = "PLAN_NOT_FOUND"
	CodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	CodeAllergenConflict  ErrorCode = "ALLERGEN_CONFLICT"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeInsufficientStock, CodeAllergenConflict:
		return http.StatusBadRequest
	case CodeNotFound, CodeUserNotFound, CodeRecipeNotFound, CodePlanNotFound:
		return http.StatusNotFound
	case CodeIntegrityConflict:
		return http.StatusConflict
	case CodeDependencyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// Predefined error constructors for common scenarios

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewDependencyUnavailableError signals that an external collaborator could
// not be reached or returned an unusable result. Callers must surface it
// untouched; the engine never substitutes fabricated defaults.
func NewDependencyUnavailableError(dependency string, cause error) *AppError {
	return NewAppError(
		CodeDependencyUnavailable,
		"Dependency unavailable",
		fmt.Sprintf("Failed to communicate with %s", dependency),
	).WithMetadata("dependency", dependency).WithCause(cause)
}

// NewIntegrityConflictError signals a concurrent write raced on a unique key
func NewIntegrityConflictError(resource string, cause error) *AppError {
	return NewAppError(
		CodeIntegrityConflict,
		"Integrity conflict",
		fmt.Sprintf("A concurrent write raced on %s", resource),
	).WithMetadata("resource", resource).WithCause(cause)
}

// Business domain specific errors

// NewUserNotFoundError creates a user not found error
func NewUserNotFoundError(userID string) *AppError {
	return NewAppError(
		CodeUserNotFound,
		"User not found",
		fmt.Sprintf("User with ID %s does not exist", userID),
	).WithMetadata("user_id", userID)
}

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID string) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %s does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// NewPlanNotFoundError creates a meal plan not found error
func NewPlanNotFoundError(planID string) *AppError {
	return NewAppError(
		CodePlanNotFound,
		"Meal plan not found",
		fmt.Sprintf("Meal plan with ID %s does not exist", planID),
	).WithMetadata("plan_id", planID)
}

// NewInsufficientStockError creates a validation error carrying the
// shortage list computed by the availability check
func NewInsufficientStockError(recipeName string, shortages interface{}) *AppError {
	return NewAppError(
		CodeInsufficientStock,
		"Insufficient pantry stock",
		fmt.Sprintf("Cannot cook %q: missing ingredients in pantry", recipeName),
	).WithMetadata("shortages", shortages)
}

// NewAllergenConflictError creates a validation error for an allergen hit
func NewAllergenConflictError(ingredientIDs []string) *AppError {
	return NewAppError(
		CodeAllergenConflict,
		"Recipe contains allergens for this user",
		fmt.Sprintf("Conflicting ingredient ids: %s", strings.Join(ingredientIDs, ", ")),
	).WithMetadata("ingredient_ids", ingredientIDs)
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// IsNotFound reports whether the error carries any of the not-found codes
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case CodeNotFound, CodeUserNotFound, CodeRecipeNotFound, CodePlanNotFound:
		return true
	}
	return false
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses
type ErrorDetails struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:     err.Code,
			Message:  err.Message,
			Details:  err.Details,
			Metadata: err.Metadata,
		},
	}
}
