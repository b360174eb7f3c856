package recipe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when an operation targets a recipe id that is not in the collection.
	ErrNotFound = errors.New("recipe not found")
	// ErrInvalidRecipe is returned when a recipe or one of its ingredients has no name.
	ErrInvalidRecipe = errors.New("invalid recipe")
)

// Ingredient is a named quantity required by a recipe.
// Its ID is only unique within the owning recipe.
type Ingredient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Recipe represents a dish that can be placed on the weekly schedule.
type Recipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions string       `json:"instructions"`
	Color        string       `json:"color,omitempty"`
	MealTypes    []string     `json:"mealTypes,omitempty"`
	DietaryTags  []string     `json:"dietaryTags,omitempty"`
}

// Validate checks that the recipe and every ingredient carry a name.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("%w: ingredient %d has no name", ErrInvalidRecipe, i+1)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate collection state through slices.
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	out.MealTypes = append([]string(nil), r.MealTypes...)
	out.DietaryTags = append([]string(nil), r.DietaryTags...)
	return out
}

// HasDarkColor reports whether the display color needs light text on top of it.
func (r Recipe) HasDarkColor() bool {
	c := strings.TrimPrefix(r.Color, "#")
	if len(c) != 6 {
		return false
	}
	rgb, err := strconv.ParseUint(c, 16, 32)
	if err != nil {
		return false
	}
	red := float64(rgb >> 16 & 0xff)
	green := float64(rgb >> 8 & 0xff)
	blue := float64(rgb & 0xff)
	return red*0.299+green*0.587+blue*0.114 < 128
}
