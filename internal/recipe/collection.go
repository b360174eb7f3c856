package recipe

import (
	"strings"

	"github.com/google/uuid"
)

// Collection holds the user's recipes in insertion order.
// The order is the population used by schedule auto-fill, so it must stay stable.
type Collection struct {
	recipes []Recipe
	newID   func() string
}

// NewCollection creates a collection seeded with the given recipes.
func NewCollection(recipes ...Recipe) *Collection {
	c := &Collection{newID: uuid.NewString}
	for _, r := range recipes {
		c.recipes = append(c.recipes, r.Clone())
	}
	return c
}

// Add stores a new recipe, assigning ids to the recipe and to any ingredient without one.
func (c *Collection) Add(r Recipe) (Recipe, error) {
	if err := r.Validate(); err != nil {
		return Recipe{}, err
	}
	r = r.Clone()
	r.ID = c.newID()
	c.assignIngredientIDs(&r)
	c.recipes = append(c.recipes, r)
	return r.Clone(), nil
}

// Update replaces the recipe with the same id.
func (c *Collection) Update(r Recipe) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for i := range c.recipes {
		if c.recipes[i].ID == r.ID {
			r = r.Clone()
			c.assignIngredientIDs(&r)
			c.recipes[i] = r
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes a recipe. Schedule slots pointing at it are left dangling on purpose;
// they resolve to "no recipe" at read time.
func (c *Collection) Delete(id string) bool {
	for i := range c.recipes {
		if c.recipes[i].ID == id {
			c.recipes = append(c.recipes[:i], c.recipes[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the recipe with the given id.
func (c *Collection) Get(id string) (*Recipe, bool) {
	if id == "" {
		return nil, false
	}
	for i := range c.recipes {
		if c.recipes[i].ID == id {
			r := c.recipes[i].Clone()
			return &r, true
		}
	}
	return nil, false
}

// FindByName returns the first recipe whose name matches case-insensitively.
func (c *Collection) FindByName(name string) (*Recipe, bool) {
	name = strings.TrimSpace(name)
	for i := range c.recipes {
		if strings.EqualFold(c.recipes[i].Name, name) {
			r := c.recipes[i].Clone()
			return &r, true
		}
	}
	return nil, false
}

// List returns a copy of all recipes in insertion order.
func (c *Collection) List() []Recipe {
	out := make([]Recipe, 0, len(c.recipes))
	for _, r := range c.recipes {
		out = append(out, r.Clone())
	}
	return out
}

// Len returns the number of recipes.
func (c *Collection) Len() int {
	return len(c.recipes)
}

// assignIngredientIDs gives every ingredient an id unique within the recipe.
// Missing and repeated ids are replaced.
func (c *Collection) assignIngredientIDs(r *Recipe) {
	seen := make(map[string]struct{}, len(r.Ingredients))
	for i := range r.Ingredients {
		if _, dup := seen[r.Ingredients[i].ID]; dup || r.Ingredients[i].ID == "" {
			r.Ingredients[i].ID = c.newID()
		}
		seen[r.Ingredients[i].ID] = struct{}{}
	}
}
