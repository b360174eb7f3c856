package schedule

import (
	"errors"
	"fmt"
	"math/rand"

	"mealwise/internal/recipe"
)

// ErrNoRecipes is reported by AutoFill when there is nothing to draw from.
var ErrNoRecipes = errors.New("no recipes available")

// Recipes is what the schedule needs from the recipe collection:
// id resolution and a stable population for random draws.
type Recipes interface {
	Get(id string) (*recipe.Recipe, bool)
	List() []recipe.Recipe
}

// IntnFunc returns a value in [0, n). Tests inject a fixed sequence.
type IntnFunc func(n int) int

// Store holds and mutates the week's recipe assignments.
type Store struct {
	week    Week
	recipes Recipes
	intn    IntnFunc
}

// NewStore creates a store over an initial week. A nil intn uses math/rand.
func NewStore(week Week, recipes Recipes, intn IntnFunc) *Store {
	if intn == nil {
		intn = rand.Intn
	}
	return &Store{week: week, recipes: recipes, intn: intn}
}

// Assign overwrites the slot. The id is not checked against the collection;
// an empty id clears the slot.
func (s *Store) Assign(day Day, slot Slot, recipeID string) error {
	return s.week.set(day, slot, recipeID)
}

// Get resolves the slot's recipe. Unassigned slots and ids that no longer
// resolve both report false.
func (s *Store) Get(day Day, slot Slot) (*recipe.Recipe, bool) {
	id := s.week.RecipeID(day, slot)
	if id == "" {
		return nil, false
	}
	return s.recipes.Get(id)
}

// AutoFill draws a recipe uniformly at random for every slot. Draws are
// independent, so a recipe may repeat across the week. With an empty
// collection the week is left untouched and ErrNoRecipes is returned.
func (s *Store) AutoFill() error {
	population := s.recipes.List()
	n := len(population)
	if n == 0 {
		return ErrNoRecipes
	}

	var filled Week
	for di := range Days {
		for si := range Slots {
			idx := s.intn(n) % n
			if idx < 0 {
				idx += n
			}
			filled.slots[di][si] = population[idx].ID
		}
	}
	s.week = filled
	return nil
}

// Move assigns the source slot's recipe to the target and clears the source,
// mirroring a drag between grid cells. It reports false when the source is empty.
func (s *Store) Move(fromDay Day, fromSlot Slot, toDay Day, toSlot Slot) (bool, error) {
	for _, d := range []Day{fromDay, toDay} {
		if dayIndex(d) < 0 {
			return false, fmt.Errorf("%w: %q", ErrUnknownDay, d)
		}
	}
	for _, sl := range []Slot{fromSlot, toSlot} {
		if slotIndex(sl) < 0 {
			return false, fmt.Errorf("%w: %q", ErrUnknownSlot, sl)
		}
	}
	id := s.week.RecipeID(fromDay, fromSlot)
	if id == "" {
		return false, nil
	}
	if err := s.week.set(toDay, toSlot, id); err != nil {
		return false, err
	}
	if fromDay != toDay || fromSlot != toSlot {
		if err := s.week.set(fromDay, fromSlot, ""); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Clear unassigns every slot.
func (s *Store) Clear() {
	s.week = Week{}
}

// Week returns a copy of the current assignments.
func (s *Store) Week() Week {
	return s.week
}

// Replace swaps in a whole week, e.g. after loading from storage.
func (s *Store) Replace(w Week) {
	s.week = w
}
