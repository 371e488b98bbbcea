// Package gorm provides GORM model definitions and repositories for
// the application.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuizine/api/internal/domain/mealplan"
	"github.com/cuizine/api/internal/domain/recipe"
	"github.com/cuizine/api/internal/domain/shoppinglist"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"type:varchar(255);not null;index"`
	Description string    `gorm:"type:text"`

	// External auth provider IDs are opaque strings
	CreatorUserID string `gorm:"type:varchar(64);not null;index"`

	// Recipe details
	Ingredients   IngredientsJSON  `gorm:"type:jsonb"`
	Instructions  InstructionsJSON `gorm:"type:jsonb"`
	NutritionInfo NutritionJSON    `gorm:"type:jsonb"`

	// Categorization
	CuisineType  StringSlice `gorm:"type:jsonb"`
	MealType     string      `gorm:"type:varchar(20);index"`
	CookingStyle string      `gorm:"type:varchar(30)"`
	Difficulty   string      `gorm:"type:varchar(20);index"`
	IsSpicy      bool        `gorm:"default:false"`
	DietaryInfo  BoolMap     `gorm:"type:jsonb"`

	// Timing (minutes)
	PrepTime  int `gorm:"default:0"`
	CookTime  int `gorm:"default:0"`
	TotalTime int `gorm:"default:0;index"`
	Servings  int `gorm:"default:1"`

	// Supplementary content
	EquipmentNeeded     StringSlice `gorm:"type:jsonb"`
	RecipeTips          StringSlice `gorm:"type:jsonb"`
	StorageInstructions string      `gorm:"type:text"`
	LeftoverIdeas       StringSlice `gorm:"type:jsonb"`

	// Provenance
	SourceType    string  `gorm:"type:varchar(10);not null;default:'user';index"`
	GeneratedFrom RawJSON `gorm:"type:jsonb"`

	// Engagement counters
	ViewCount int `gorm:"column:views_count;default:0"`
	LikeCount int `gorm:"column:likes_count;default:0;index"`
	SaveCount int `gorm:"column:saves_count;default:0"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the table name
func (RecipeModel) TableName() string { return "recipes" }

// MealPlanModel represents the GORM model for meal plans
type MealPlanModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:varchar(64);not null;index"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Status    string    `gorm:"type:varchar(20);not null"`

	Days []MealPlanDayModel `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName overrides the table name
func (MealPlanModel) TableName() string { return "meal_plans" }

// MealPlanDayModel represents one day within a plan
type MealPlanDayModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	MealPlanID uuid.UUID `gorm:"type:uuid;not null;index"`
	Date       time.Time `gorm:"not null"`
	Meals      RawJSON   `gorm:"type:jsonb"`
	Leftovers  RawJSON   `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

// TableName overrides the table name
func (MealPlanDayModel) TableName() string { return "meal_plan_days" }

// ShoppingListModel represents the GORM model for shopping lists
type ShoppingListModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    string     `gorm:"type:varchar(64);not null;index"`
	RecipeID  *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"type:varchar(255);not null"`
	Items     ItemsJSON  `gorm:"type:jsonb"`
	CreatedAt time.Time  `gorm:"index"`
	UpdatedAt time.Time
}

// TableName overrides the table name
func (ShoppingListModel) TableName() string { return "shopping_lists" }

// PreferencesModel represents account-level generation preferences
type PreferencesModel struct {
	UserID              string      `gorm:"type:varchar(64);primaryKey"`
	DietaryRestrictions StringSlice `gorm:"type:jsonb"`
	FavoriteCuisines    StringSlice `gorm:"type:jsonb"`
	DislikedIngredients StringSlice `gorm:"type:jsonb"`
	CookingSkillLevel   string      `gorm:"type:varchar(20)"`
	HouseholdSize       int         `gorm:"default:2"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName overrides the table name
func (PreferencesModel) TableName() string { return "user_preferences" }

// Migrate creates or updates the schema for all models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&RecipeModel{},
		&MealPlanModel{},
		&MealPlanDayModel{},
		&ShoppingListModel{},
		&PreferencesModel{},
	)
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanDayModel
func (d *MealPlanDayModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// StringSlice custom type for handling string slices in JSON columns
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	return scanJSON(value, s, "StringSlice")
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// BoolMap custom type for dietary info flags
type BoolMap map[string]bool

// Scan implements the sql.Scanner interface
func (m *BoolMap) Scan(value interface{}) error {
	return scanJSON(value, m, "BoolMap")
}

// Value implements the driver.Valuer interface
func (m BoolMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// IngredientsJSON stores structured ingredients as a JSON column
type IngredientsJSON []recipe.Ingredient

// Scan implements the sql.Scanner interface
func (j *IngredientsJSON) Scan(value interface{}) error {
	return scanJSON(value, j, "IngredientsJSON")
}

// Value implements the driver.Valuer interface
func (j IngredientsJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "[]", nil
	}
	return json.Marshal(j)
}

// InstructionsJSON stores structured instructions as a JSON column
type InstructionsJSON []recipe.Instruction

// Scan implements the sql.Scanner interface
func (j *InstructionsJSON) Scan(value interface{}) error {
	return scanJSON(value, j, "InstructionsJSON")
}

// Value implements the driver.Valuer interface
func (j InstructionsJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "[]", nil
	}
	return json.Marshal(j)
}

// NutritionJSON stores nutrition facts as a JSON column
type NutritionJSON recipe.NutritionInfo

// Scan implements the sql.Scanner interface
func (j *NutritionJSON) Scan(value interface{}) error {
	return scanJSON(value, j, "NutritionJSON")
}

// Value implements the driver.Valuer interface
func (j NutritionJSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// ItemsJSON stores shopping list items as a JSON column
type ItemsJSON []shoppinglist.Item

// Scan implements the sql.Scanner interface
func (j *ItemsJSON) Scan(value interface{}) error {
	return scanJSON(value, j, "ItemsJSON")
}

// Value implements the driver.Valuer interface
func (j ItemsJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "[]", nil
	}
	return json.Marshal(j)
}

// RawJSON stores pre-encoded JSON verbatim
type RawJSON json.RawMessage

// Scan implements the sql.Scanner interface
func (j *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
		return nil
	case string:
		*j = RawJSON(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into RawJSON", value)
	}
}

// Value implements the driver.Valuer interface
func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

// mealsColumn encodes a day's slot assignments for storage
type mealsColumn map[string]uuid.UUID

func encodeMeals(meals map[mealplan.Slot]uuid.UUID) (RawJSON, error) {
	out := make(mealsColumn, len(meals))
	for slot, id := range meals {
		out[string(slot)] = id
	}
	raw, err := json.Marshal(out)
	return RawJSON(raw), err
}

func decodeMeals(raw RawJSON) (map[mealplan.Slot]uuid.UUID, error) {
	if len(raw) == 0 {
		return map[mealplan.Slot]uuid.UUID{}, nil
	}
	var col mealsColumn
	if err := json.Unmarshal([]byte(raw), &col); err != nil {
		return nil, err
	}
	out := make(map[mealplan.Slot]uuid.UUID, len(col))
	for slot, id := range col {
		out[mealplan.Slot(slot)] = id
	}
	return out, nil
}

func scanJSON(value interface{}, dest interface{}, typeName string) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, typeName)
	}
}
