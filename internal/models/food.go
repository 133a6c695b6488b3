package models

import "strings"

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

var Meals = []MealType{Breakfast, Lunch, Dinner}

func ParseMeal(s string) (MealType, bool) {
	m := MealType(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Breakfast, Lunch, Dinner:
		return m, true
	}
	return "", false
}

// LocalizedText carries the English and Persian rendering of a catalog string.
type LocalizedText struct {
	En string `json:"en"`
	Fa string `json:"fa"`
}

func (t LocalizedText) Matches(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && (strings.EqualFold(t.En, s) || t.Fa == s)
}

type Nutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

type FoodItem struct {
	ID            string        `json:"id"`
	Name          LocalizedText `json:"name"`
	Description   LocalizedText `json:"description"`
	Price         int64         `json:"price"`
	OriginalPrice *int64        `json:"originalPrice,omitempty"`
	Discount      *int          `json:"discount,omitempty"`
	Category      MealType      `json:"category"`
	Nutrition     Nutrition     `json:"nutrition"`
	Available     bool          `json:"available"`
	Popular       bool          `json:"popular"`
	Vegetarian    bool          `json:"vegetarian"`
}
