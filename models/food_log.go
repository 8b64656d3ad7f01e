// food_log.go - Defines the FoodLog model and its nutrient breakdown

package models

import (
	"encoding/json"
	"time"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// Valid reports whether m is one of the four known meal types.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// MacroUnit is the only unit macros are stored and served in.
const MacroUnit = "g"

// Nutrients is the macro breakdown of one entry, in grams.
type Nutrients struct {
	Protein Grams `json:"protein"`
	Carbs   Grams `json:"carbs"`
	Fat     Grams `json:"fat"`
}

// MarshalJSON adds the unit so clients never have to guess it.
func (n Nutrients) MarshalJSON() ([]byte, error) {
	type plain Nutrients
	return json.Marshal(struct {
		plain
		Unit string `json:"unit"`
	}{plain(n), MacroUnit})
}

type FoodLog struct { // FoodLog is one immutable food entry owned by a user
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FoodName  string    `gorm:"not null" json:"foodName"`
	Calories  float64   `gorm:"not null" json:"calories"`
	Nutrients Nutrients `gorm:"embedded" json:"nutrients"`
	MealType  MealType  `gorm:"not null;default:'snack'" json:"mealType"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"` // Server-assigned
}
