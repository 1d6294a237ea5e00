package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartmeal/core/internal/domain/pantry"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// oldestFirst orders batches for consumption: known expiry before
// unknown, then earliest expiry, then insertion order
const oldestFirst = "best_before ASC NULLS LAST, created_at ASC"

// PantryRepository implements the pantry repository interface using GORM
type PantryRepository struct {
	db *gorm.DB
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) outbound.PantryRepository {
	return &PantryRepository{db: db}
}

// Create inserts a new batch. A concurrent insert on the same batch key
// surfaces as an integrity conflict for the caller to retry.
func (r *PantryRepository) Create(ctx context.Context, batch *pantry.Batch) error {
	model := BatchToModel(batch)

	result := dbFromContext(ctx, r.db).Create(model)
	if result.Error != nil {
		return translateError(result.Error, "create pantry batch", "pantry batch")
	}

	return nil
}

// Update saves a batch's mutable state
func (r *PantryRepository) Update(ctx context.Context, batch *pantry.Batch) error {
	model := BatchToModel(batch)

	result := dbFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return translateError(result.Error, "update pantry batch", "pantry batch")
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("pantry batch")
	}

	return nil
}

// Delete removes a batch by id
func (r *PantryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&PantryBatchModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "delete pantry batch", "pantry batch")
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("pantry batch")
	}

	return nil
}

// DeleteByUser removes all of a user's batches
func (r *PantryRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&PantryBatchModel{}, "user_id = ?", userID)
	if result.Error != nil {
		return translateError(result.Error, "delete user pantry", "pantry batch")
	}

	return nil
}

// FindByID finds a batch by id
func (r *PantryRepository) FindByID(ctx context.Context, id uuid.UUID) (*pantry.Batch, error) {
	var model PantryBatchModel

	result := dbFromContext(ctx, r.db).First(&model, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, "find pantry batch", "pantry batch")
	}

	return ModelToBatch(&model), nil
}

// FindByKey finds the batch matching the merge key, locking the row
// when forUpdate is set
func (r *PantryRepository) FindByKey(ctx context.Context, key pantry.Key, forUpdate bool) (*pantry.Batch, error) {
	var model PantryBatchModel

	query := r.lockable(dbFromContext(ctx, r.db), forUpdate).
		Where("user_id = ? AND ingredient_id = ? AND unit = ?", key.UserID, key.IngredientID, key.Unit)
	if key.BestBefore == nil {
		query = query.Where("best_before IS NULL")
	} else {
		query = query.Where("best_before = ?", *key.BestBefore)
	}

	result := query.First(&model)
	if result.Error != nil {
		return nil, translateError(result.Error, "find pantry batch by key", "pantry batch")
	}

	return ModelToBatch(&model), nil
}

// FindForConsumption loads every batch of one ingredient and unit in
// consumption order, locking the rows when forUpdate is set
func (r *PantryRepository) FindForConsumption(ctx context.Context, userID uuid.UUID, ingredientID, unit string, forUpdate bool) ([]*pantry.Batch, error) {
	var models []PantryBatchModel

	result := r.lockable(dbFromContext(ctx, r.db), forUpdate).
		Where("user_id = ? AND ingredient_id = ? AND unit = ?", userID, ingredientID, unit).
		Order(oldestFirst).
		Find(&models)
	if result.Error != nil {
		return nil, translateError(result.Error, "load batches for consumption", "pantry batch")
	}

	return modelsToBatches(models), nil
}

// FindByUser lists all of a user's batches in consumption order
func (r *PantryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*pantry.Batch, error) {
	var models []PantryBatchModel

	result := dbFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("ingredient_id ASC, " + oldestFirst).
		Find(&models)
	if result.Error != nil {
		return nil, translateError(result.Error, "list user pantry", "pantry batch")
	}

	return modelsToBatches(models), nil
}

// FindExpiringWithin lists batches whose best-before date falls inside
// the next days days. Batches without a date never match.
func (r *PantryRepository) FindExpiringWithin(ctx context.Context, userID uuid.UUID, days int) ([]*pantry.Batch, error) {
	var models []PantryBatchModel

	cutoff := time.Now().AddDate(0, 0, days)
	result := dbFromContext(ctx, r.db).
		Where("user_id = ? AND best_before IS NOT NULL AND best_before <= ?", userID, cutoff).
		Order(oldestFirst).
		Find(&models)
	if result.Error != nil {
		return nil, translateError(result.Error, "list expiring batches", "pantry batch")
	}

	return modelsToBatches(models), nil
}

// Availability sums the stock of one ingredient and unit
func (r *PantryRepository) Availability(ctx context.Context, userID uuid.UUID, ingredientID, unit string) (decimal.Decimal, error) {
	var total decimal.NullDecimal

	result := dbFromContext(ctx, r.db).
		Model(&PantryBatchModel{}).
		Select("SUM(quantity)").
		Where("user_id = ? AND ingredient_id = ? AND unit = ?", userID, ingredientID, unit).
		Scan(&total)
	if result.Error != nil {
		return decimal.Zero, translateError(result.Error, "sum availability", "pantry batch")
	}
	if !total.Valid {
		return decimal.Zero, nil
	}

	return total.Decimal, nil
}

// DistinctIngredientIDs lists the distinct ingredients a user stocks
func (r *PantryRepository) DistinctIngredientIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var ids []string

	result := dbFromContext(ctx, r.db).
		Model(&PantryBatchModel{}).
		Distinct("ingredient_id").
		Where("user_id = ?", userID).
		Order("ingredient_id ASC").
		Pluck("ingredient_id", &ids)
	if result.Error != nil {
		return nil, translateError(result.Error, "list pantry ingredients", "pantry batch")
	}

	return ids, nil
}

// lockable adds FOR UPDATE on engines that support row locks. SQLite
// serializes writers anyway, so the clause is skipped there.
func (r *PantryRepository) lockable(db *gorm.DB, forUpdate bool) *gorm.DB {
	if forUpdate && db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func modelsToBatches(models []PantryBatchModel) []*pantry.Batch {
	batches := make([]*pantry.Batch, len(models))
	for i := range models {
		batches[i] = ModelToBatch(&models[i])
	}
	return batches
}
