package shopping

import "errors"

var (
	ErrMissingUser       = errors.New("list must belong to a user")
	ErrMissingIngredient = errors.New("item must reference an ingredient")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrListNotOpen       = errors.New("list is not open")
	ErrListNotFound      = errors.New("shopping list not found")
	ErrItemNotFound      = errors.New("shopping list item not found")
)
