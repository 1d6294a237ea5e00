package pantry

import "errors"

// Domain errors for pantry ledger operations

var (
	ErrMissingUser         = errors.New("batch must belong to a user")
	ErrMissingIngredient   = errors.New("batch must reference an ingredient")
	ErrMissingUnit         = errors.New("batch must carry a unit of measure")
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrNegativeQuantity    = errors.New("quantity must not be negative")

	ErrBatchNotFound = errors.New("pantry batch not found")
)
