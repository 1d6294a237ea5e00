// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"github.com/smartmeal/core/internal/domain/cooking"
	"github.com/smartmeal/core/internal/domain/mealplan"
	"github.com/smartmeal/core/internal/domain/pantry"
	"github.com/smartmeal/core/internal/domain/shopping"
	"github.com/smartmeal/core/internal/domain/user"
)

// BatchToModel converts a domain batch to a GORM model
func BatchToModel(b *pantry.Batch) *PantryBatchModel {
	return &PantryBatchModel{
		ID:           b.ID(),
		UserID:       b.UserID(),
		IngredientID: b.IngredientID(),
		Unit:         b.Unit(),
		Quantity:     b.Quantity(),
		BestBefore:   b.BestBefore(),
		Source:       b.Source(),
		CreatedAt:    b.CreatedAt(),
		UpdatedAt:    b.UpdatedAt(),
	}
}

// ModelToBatch converts a GORM model to a domain batch
func ModelToBatch(m *PantryBatchModel) *pantry.Batch {
	return pantry.Reconstitute(
		m.ID, m.UserID, m.IngredientID, m.Unit,
		m.Quantity, m.BestBefore, m.Source,
		m.CreatedAt, m.UpdatedAt,
	)
}

// PlanToModel converts a domain meal plan with its entries to GORM models
func PlanToModel(p *mealplan.MealPlan) *MealPlanModel {
	entries := make([]MealEntryModel, 0, len(p.Entries()))
	for _, e := range p.Entries() {
		entries = append(entries, MealEntryModel{
			ID:       e.ID(),
			PlanID:   e.PlanID(),
			DayIndex: e.DayIndex(),
			RecipeID: e.RecipeID(),
			Servings: e.Servings(),
		})
	}

	return &MealPlanModel{
		ID:        p.ID(),
		UserID:    p.UserID(),
		WeekStart: p.WeekStart(),
		Days:      p.Days(),
		CreatedAt: p.CreatedAt(),
		Entries:   entries,
	}
}

// ModelToPlan converts a GORM model to a domain meal plan
func ModelToPlan(m *MealPlanModel) *mealplan.MealPlan {
	entries := make([]*mealplan.MealEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		entries = append(entries, mealplan.ReconstituteEntry(e.ID, e.PlanID, e.DayIndex, e.RecipeID, e.Servings))
	}
	return mealplan.Reconstitute(m.ID, m.UserID, m.WeekStart, m.Days, m.CreatedAt, entries)
}

// CookingLogToModel converts a domain cook record to a GORM model
func CookingLogToModel(l *cooking.Log) *CookingLogModel {
	return &CookingLogModel{
		ID:       l.ID(),
		UserID:   l.UserID(),
		RecipeID: l.RecipeID(),
		Servings: l.Servings(),
		CookedAt: l.CookedAt(),
	}
}

// ModelToCookingLog converts a GORM model to a domain cook record
func ModelToCookingLog(m *CookingLogModel) *cooking.Log {
	return cooking.ReconstituteLog(m.ID, m.UserID, m.RecipeID, m.Servings, m.CookedAt)
}

// WasteEntryToModel converts a domain waste record to a GORM model
func WasteEntryToModel(w *cooking.WasteEntry) *WasteLogModel {
	return &WasteLogModel{
		ID:           w.ID(),
		UserID:       w.UserID(),
		IngredientID: w.IngredientID(),
		Quantity:     w.Quantity(),
		Unit:         w.Unit(),
		Reason:       w.Reason(),
		OccurredAt:   w.OccurredAt(),
	}
}

// ModelToWasteEntry converts a GORM model to a domain waste record
func ModelToWasteEntry(m *WasteLogModel) *cooking.WasteEntry {
	return cooking.ReconstituteWasteEntry(m.ID, m.UserID, m.IngredientID, m.Quantity, m.Unit, m.Reason, m.OccurredAt)
}

// ListToModel converts a domain shopping list with its items to GORM models
func ListToModel(l *shopping.List) *ShoppingListModel {
	items := make([]ShoppingItemModel, 0, len(l.Items()))
	for _, item := range l.Items() {
		items = append(items, ShoppingItemModel{
			ID:            item.ID(),
			ListID:        item.ListID(),
			IngredientID:  item.IngredientID(),
			NeededQty:     item.NeededQty(),
			Unit:          item.Unit(),
			Checked:       item.Checked(),
			FromRecipeIDs: item.FromRecipeIDs(),
			Note:          item.Note(),
		})
	}

	return &ShoppingListModel{
		ID:        l.ID(),
		UserID:    l.UserID(),
		PlanID:    l.PlanID(),
		Status:    string(l.Status()),
		CreatedAt: l.CreatedAt(),
		UpdatedAt: l.UpdatedAt(),
		Items:     items,
	}
}

// ModelToList converts a GORM model to a domain shopping list
func ModelToList(m *ShoppingListModel) *shopping.List {
	items := make([]*shopping.Item, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, shopping.ReconstituteItem(
			item.ID, item.ListID, item.IngredientID,
			item.NeededQty, item.Unit, item.Checked,
			item.FromRecipeIDs, item.Note,
		))
	}
	return shopping.Reconstitute(m.ID, m.UserID, m.PlanID, shopping.ListStatus(m.Status), m.CreatedAt, m.UpdatedAt, items)
}

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	tagPrefs := make(map[string]interface{}, len(u.TagPreferences()))
	for _, p := range u.TagPreferences() {
		tagPrefs[p.Tag] = string(p.Strength)
	}

	return &UserModel{
		ID:                  u.ID(),
		Name:                u.Name(),
		AllergenIngredients: u.AllergenIngredientIDs(),
		LikedCuisines:       u.LikedCuisines(),
		DislikedCuisines:    u.DislikedCuisines(),
		TagPreferences:      tagPrefs,
		CreatedAt:           u.CreatedAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(m *UserModel) (*user.User, error) {
	tags := make([]user.TagPreference, 0, len(m.TagPreferences))
	for tag, strength := range m.TagPreferences {
		s, ok := strength.(string)
		if !ok {
			continue
		}
		tags = append(tags, user.TagPreference{Tag: tag, Strength: user.TagStrength(s)})
	}

	return user.New(m.ID, m.Name, m.AllergenIngredients, m.LikedCuisines, m.DislikedCuisines, tags, m.CreatedAt)
}
