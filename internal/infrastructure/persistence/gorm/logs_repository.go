package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartmeal/core/internal/domain/cooking"
	"github.com/smartmeal/core/internal/ports/outbound"
)

// CookingLogRepository implements the cook record repository using GORM
type CookingLogRepository struct {
	db *gorm.DB
}

// NewCookingLogRepository creates a new cooking log repository
func NewCookingLogRepository(db *gorm.DB) outbound.CookingLogRepository {
	return &CookingLogRepository{db: db}
}

// Create appends one cook record
func (r *CookingLogRepository) Create(ctx context.Context, log *cooking.Log) error {
	model := CookingLogToModel(log)

	result := dbFromContext(ctx, r.db).Create(model)
	if result.Error != nil {
		return translateError(result.Error, "create cooking log", "cooking log")
	}

	return nil
}

// FindByUserSince lists a user's cook records from since onward, newest first
func (r *CookingLogRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*cooking.Log, error) {
	var models []CookingLogModel

	result := dbFromContext(ctx, r.db).
		Where("user_id = ? AND cooked_at >= ?", userID, since).
		Order("cooked_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, translateError(result.Error, "list cooking logs", "cooking log")
	}

	logs := make([]*cooking.Log, len(models))
	for i := range models {
		logs[i] = ModelToCookingLog(&models[i])
	}

	return logs, nil
}

// CountByRecipe counts how often a user cooked each recipe
func (r *CookingLogRepository) CountByRecipe(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error) {
	type row struct {
		RecipeID string
		Count    int
	}
	var rows []row

	result := dbFromContext(ctx, r.db).
		Model(&CookingLogModel{}).
		Select("recipe_id, COUNT(*) as count").
		Where("user_id = ? AND cooked_at >= ?", userID, since).
		Group("recipe_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, translateError(result.Error, "count cooks per recipe", "cooking log")
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.RecipeID] = r.Count
	}

	return counts, nil
}

// WasteLogRepository implements the waste record repository using GORM
type WasteLogRepository struct {
	db *gorm.DB
}

// NewWasteLogRepository creates a new waste log repository
func NewWasteLogRepository(db *gorm.DB) outbound.WasteLogRepository {
	return &WasteLogRepository{db: db}
}

// Create appends one waste record
func (r *WasteLogRepository) Create(ctx context.Context, entry *cooking.WasteEntry) error {
	model := WasteEntryToModel(entry)

	result := dbFromContext(ctx, r.db).Create(model)
	if result.Error != nil {
		return translateError(result.Error, "create waste log", "waste log")
	}

	return nil
}

// FindByUserSince lists a user's waste records from since onward, newest first
func (r *WasteLogRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*cooking.WasteEntry, error) {
	var models []WasteLogModel

	result := dbFromContext(ctx, r.db).
		Where("user_id = ? AND occurred_at >= ?", userID, since).
		Order("occurred_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, translateError(result.Error, "list waste logs", "waste log")
	}

	entries := make([]*cooking.WasteEntry, len(models))
	for i := range models {
		entries[i] = ModelToWasteEntry(&models[i])
	}

	return entries, nil
}
