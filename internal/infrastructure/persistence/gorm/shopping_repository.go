package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartmeal/core/internal/domain/shopping"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// ShoppingListRepository implements the shopping list repository using GORM
type ShoppingListRepository struct {
	db *gorm.DB
}

// NewShoppingListRepository creates a new shopping list repository
func NewShoppingListRepository(db *gorm.DB) outbound.ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// Create persists the header and all items together
func (r *ShoppingListRepository) Create(ctx context.Context, list *shopping.List) error {
	model := ListToModel(list)

	result := dbFromContext(ctx, r.db).Create(model)
	if result.Error != nil {
		return translateError(result.Error, "create shopping list", "shopping list")
	}

	return nil
}

// FindByID finds a list with its items
func (r *ShoppingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.List, error) {
	var model ShoppingListModel

	result := dbFromContext(ctx, r.db).
		Preload("Items").
		First(&model, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, "find shopping list", "shopping list")
	}

	return ModelToList(&model), nil
}

// FindByUser pages through a user's lists, newest first
func (r *ShoppingListRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*shopping.List, int, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	countResult := db.Model(&ShoppingListModel{}).
		Where("user_id = ?", userID).
		Count(&total)
	if countResult.Error != nil {
		return nil, 0, translateError(countResult.Error, "count shopping lists", "shopping list")
	}

	var models []ShoppingListModel
	result := db.
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, 0, translateError(result.Error, "list shopping lists", "shopping list")
	}

	lists := make([]*shopping.List, len(models))
	for i := range models {
		lists[i] = ModelToList(&models[i])
	}

	return lists, int(total), nil
}

// UpdateItemChecked toggles one line's checked flag
func (r *ShoppingListRepository) UpdateItemChecked(ctx context.Context, listID, itemID uuid.UUID, checked bool) error {
	result := dbFromContext(ctx, r.db).
		Model(&ShoppingItemModel{}).
		Where("id = ? AND list_id = ?", itemID, listID).
		Update("checked", checked)
	if result.Error != nil {
		return translateError(result.Error, "update shopping item", "shopping list item")
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("shopping list item")
	}

	return nil
}

// Delete removes a list and its items
func (r *ShoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)

	if err := db.Delete(&ShoppingItemModel{}, "list_id = ?", id).Error; err != nil {
		return translateError(err, "delete shopping items", "shopping list")
	}

	result := db.Delete(&ShoppingListModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "delete shopping list", "shopping list")
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("shopping list")
	}

	return nil
}
