package cooking

import "errors"

var (
	ErrMissingUser       = errors.New("log entry must belong to a user")
	ErrMissingRecipe     = errors.New("log entry must reference a recipe")
	ErrMissingIngredient = errors.New("waste entry must reference an ingredient")
	ErrMissingUnit       = errors.New("waste entry must carry a unit of measure")
	ErrInvalidServings   = errors.New("servings must be greater than 0")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
)
