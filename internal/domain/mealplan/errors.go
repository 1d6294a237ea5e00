package mealplan

import "errors"

// Domain errors for meal plan operations

var (
	ErrMissingUser        = errors.New("plan must belong to a user")
	ErrInvalidDays        = errors.New("plan length must be between 1 and 14 days")
	ErrDayIndexOutOfRange = errors.New("day index outside the plan's range")
	ErrDuplicateDayIndex  = errors.New("day index already has an entry")
	ErrMissingRecipe      = errors.New("entry must reference a recipe")
	ErrInvalidServings    = errors.New("servings must be greater than 0")

	ErrPlanNotFound = errors.New("meal plan not found")
)
