// Package gorm provides GORM model definitions and repository
// implementations for the engine's relational state.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for user profiles
type UserModel struct {
	ID                  uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Name                string      `gorm:"type:varchar(255);not null"`
	AllergenIngredients StringSlice `gorm:"type:json"`
	LikedCuisines       StringSlice `gorm:"type:json"`
	DislikedCuisines    StringSlice `gorm:"type:json"`
	TagPreferences      JSONField   `gorm:"type:json"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// PantryBatchModel represents the GORM model for pantry batches.
// The unique index over the batch key makes concurrent first-inserts
// for the same key collide instead of silently duplicating stock.
// Unique indexes treat NULLs as distinct rows, so the key uses a
// non-null BestBeforeKey column carrying a sentinel for no-expiry
// batches instead of the nullable BestBefore itself.
type PantryBatchModel struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex:idx_batch_key;index"`
	IngredientID  string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_batch_key;index"`
	Unit          string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_batch_key"`
	Quantity      decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	BestBefore    *time.Time      `gorm:"index"`
	BestBeforeKey time.Time       `gorm:"not null;uniqueIndex:idx_batch_key"`
	Source        string          `gorm:"type:varchar(32)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// noExpiryKey stands in for a NULL best-before inside the unique
// batch key
var noExpiryKey = time.Unix(0, 0).UTC()

// BeforeSave keeps the key column in lockstep with BestBefore on both
// inserts and updates
func (b *PantryBatchModel) BeforeSave(tx *gorm.DB) error {
	if b.BestBefore != nil {
		b.BestBeforeKey = b.BestBefore.UTC()
	} else {
		b.BestBeforeKey = noExpiryKey
	}
	return nil
}

// MealPlanModel represents the GORM model for meal plan headers
type MealPlanModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	WeekStart time.Time `gorm:"not null;index"`
	Days      int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`

	Entries []MealEntryModel `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// MealEntryModel represents the GORM model for one planned meal
type MealEntryModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	PlanID   uuid.UUID `gorm:"type:char(36);not null;index"`
	DayIndex int       `gorm:"not null"`
	RecipeID string    `gorm:"type:varchar(64);not null;index"`
	Servings int       `gorm:"not null"`
}

// CookingLogModel represents the GORM model for cook records
type CookingLogModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID   uuid.UUID `gorm:"type:char(36);not null;index"`
	RecipeID string    `gorm:"type:varchar(64);not null;index"`
	Servings int       `gorm:"not null"`
	CookedAt time.Time `gorm:"not null;index"`
}

// WasteLogModel represents the GORM model for waste records
type WasteLogModel struct {
	ID           uuid.UUID       `gorm:"type:char(36);primaryKey"`
	UserID       uuid.UUID       `gorm:"type:char(36);not null;index"`
	IngredientID string          `gorm:"type:varchar(64);not null;index"`
	Quantity     decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	Unit         string          `gorm:"type:varchar(32);not null"`
	Reason       string          `gorm:"type:varchar(255)"`
	OccurredAt   time.Time       `gorm:"not null;index"`
}

// ShoppingListModel represents the GORM model for shopping list headers
type ShoppingListModel struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID  `gorm:"type:char(36);not null;index"`
	PlanID    *uuid.UUID `gorm:"type:char(36);index"`
	Status    string     `gorm:"type:varchar(20);not null;default:'open'"`
	CreatedAt time.Time  `gorm:"index"`
	UpdatedAt time.Time

	Items []ShoppingItemModel `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
}

// ShoppingItemModel represents the GORM model for one list line
type ShoppingItemModel struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey"`
	ListID        uuid.UUID       `gorm:"type:char(36);not null;index"`
	IngredientID  string          `gorm:"type:varchar(64);not null"`
	NeededQty     decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	Unit          string          `gorm:"type:varchar(32);not null"`
	Checked       bool            `gorm:"default:false"`
	FromRecipeIDs StringSlice     `gorm:"type:json"`
	Note          string          `gorm:"type:text"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// JSONField custom type for handling JSON fields
type JSONField map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = JSONField{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONField", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSONField) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return json.Marshal(j)
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for PantryBatchModel
func (b *PantryBatchModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanModel
func (p *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealEntryModel
func (e *MealEntryModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for CookingLogModel
func (l *CookingLogModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for WasteLogModel
func (w *WasteLogModel) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for ShoppingListModel
func (l *ShoppingListModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for ShoppingItemModel
func (i *ShoppingItemModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (PantryBatchModel) TableName() string {
	return "pantry_batches"
}

func (MealPlanModel) TableName() string {
	return "meal_plans"
}

func (MealEntryModel) TableName() string {
	return "meal_entries"
}

func (CookingLogModel) TableName() string {
	return "cooking_logs"
}

func (WasteLogModel) TableName() string {
	return "waste_logs"
}

func (ShoppingListModel) TableName() string {
	return "shopping_lists"
}

func (ShoppingItemModel) TableName() string {
	return "shopping_items"
}

// AllModels lists every model for migration
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&PantryBatchModel{},
		&MealPlanModel{},
		&MealEntryModel{},
		&CookingLogModel{},
		&WasteLogModel{},
		&ShoppingListModel{},
		&ShoppingItemModel{},
	}
}
