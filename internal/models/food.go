// ABOUTME: FoodEntry records what was eaten, with calories and optional macros
// ABOUTME: Missing macros are imputed from calories using a fixed 15/55/30 split
package models

import (
	"strings"
	"time"
)

// Unit is the measure a food quantity is expressed in
type Unit string

const (
	UnitGram       Unit = "gram"
	UnitPiece      Unit = "piece"
	UnitCup        Unit = "cup"
	UnitTablespoon Unit = "tablespoon"
	UnitTeaspoon   Unit = "teaspoon"
	UnitML         Unit = "ml"
	UnitSlice      Unit = "slice"
	UnitBowl       Unit = "bowl"
	UnitPlate      Unit = "plate"
)

// Units lists every accepted unit
var Units = []Unit{UnitGram, UnitPiece, UnitCup, UnitTablespoon, UnitTeaspoon, UnitML, UnitSlice, UnitBowl, UnitPlate}

// Valid reports whether u is one of Units
func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// MealType groups food entries within a day
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnacks    MealType = "snacks"
	MealOther     MealType = "other"
)

// MealTypes lists every accepted meal type
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnacks, MealOther}

// Valid reports whether m is one of MealTypes
func (m MealType) Valid() bool {
	for _, known := range MealTypes {
		if m == known {
			return true
		}
	}
	return false
}

// MealTypeAt picks a meal type from the local hour of t
func MealTypeAt(t time.Time) MealType {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return MealBreakfast
	case h >= 11 && h < 16:
		return MealLunch
	case h >= 18 && h < 22:
		return MealDinner
	default:
		return MealSnacks
	}
}

// Imputation shares applied when a food entry has no macro breakdown.
// Protein and carbs take their share of calories directly; fat converts
// its share to grams at 9 kcal/g.
const (
	ImputedProteinShare = 0.15
	ImputedCarbsShare   = 0.55
	ImputedFatShare     = 0.30
	FatKcalPerGram      = 9.0
)

// Defaults used when food input is missing or invalid
const (
	DefaultFoodQuantity = 1.0
	DefaultFoodUnit     = UnitPiece
	DefaultFoodName     = "Unnamed food"
)

// FoodEntry is one logged food item
type FoodEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      Unit      `json:"unit"`
	Calories  float64   `json:"calories"`
	Protein   *float64  `json:"protein,omitempty"`
	Carbs     *float64  `json:"carbs,omitempty"`
	Fat       *float64  `json:"fat,omitempty"`
	MealType  MealType  `json:"mealType"`
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize coerces invalid fields to their defaults. createdAt falls back
// to now and the meal type to the one implied by createdAt in loc.
func (f *FoodEntry) Normalize(now time.Time, loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		f.Name = DefaultFoodName
	}
	f.Quantity = Positive(f.Quantity, DefaultFoodQuantity)
	if !f.Unit.Valid() {
		f.Unit = DefaultFoodUnit
	}
	f.Calories = NonNegative(f.Calories, 0)
	f.Protein = optionalNonNegative(f.Protein)
	f.Carbs = optionalNonNegative(f.Carbs)
	f.Fat = optionalNonNegative(f.Fat)
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if !f.MealType.Valid() {
		f.MealType = MealTypeAt(f.CreatedAt.In(loc))
	}
}

// Macros returns protein, carbs and fat in grams, imputing any field that
// was not recorded
func (f FoodEntry) Macros() (protein, carbs, fat float64) {
	protein = f.Calories * ImputedProteinShare
	if f.Protein != nil {
		protein = *f.Protein
	}
	carbs = f.Calories * ImputedCarbsShare
	if f.Carbs != nil {
		carbs = *f.Carbs
	}
	fat = f.Calories * ImputedFatShare / FatKcalPerGram
	if f.Fat != nil {
		fat = *f.Fat
	}
	return protein, carbs, fat
}

// Timestamp returns the time used for day bucketing
func (f FoodEntry) Timestamp() time.Time { return f.CreatedAt }

// Identity returns the record id
func (f FoodEntry) Identity() string { return f.ID }
