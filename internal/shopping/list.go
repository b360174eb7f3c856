package shopping

import (
	"fmt"
	"slices"
	"strings"

	"mealwise/internal/recipe"
	"mealwise/internal/schedule"
)

// Resolver looks recipes up by id.
type Resolver interface {
	Get(id string) (*recipe.Recipe, bool)
}

// Generate derives the shopping list for a week.
//
// Slots are visited Monday to Sunday, lunch before dinner, and each recipe's
// ingredients in stored order. An ingredient is kept once per recipe, matching
// names case-insensitively; the same name under two recipes yields two items.
// The result is sorted by recipe name then ingredient name, both case-insensitive,
// with ties kept in visiting order. Every item starts unacquired.
func Generate(week schedule.Week, recipes Resolver) []Item {
	var items []Item
	seen := make(map[string]struct{})
	ids := make(map[string]struct{})

	for _, e := range week.Entries() {
		if e.RecipeID == "" {
			continue
		}
		rec, ok := recipes.Get(e.RecipeID)
		if !ok {
			continue
		}
		for _, ing := range rec.Ingredients {
			key := rec.ID + "\x00" + strings.ToLower(ing.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			id := uniqueID(ids, itemID(rec.ID, ing))
			items = append(items, Item{
				ID:           id,
				IngredientID: ing.ID,
				Name:         ing.Name,
				Quantity:     ing.Quantity,
				RecipeID:     rec.ID,
				RecipeName:   rec.Name,
			})
		}
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		if c := strings.Compare(strings.ToLower(a.RecipeName), strings.ToLower(b.RecipeName)); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return items
}

func itemID(recipeID string, ing recipe.Ingredient) string {
	if ing.ID != "" {
		return recipeID + "/" + ing.ID
	}
	return recipeID + "/" + strings.ToLower(ing.Name)
}

// uniqueID suffixes id until it is unused. Stored recipes may carry repeated
// ingredient ids, and a name fallback can match another ingredient's id.
func uniqueID(used map[string]struct{}, id string) string {
	candidate := id
	for n := 2; ; n++ {
		if _, taken := used[candidate]; !taken {
			used[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s#%d", id, n)
	}
}

// List is the in-memory shopping list of one session. Acquired flags live only
// as long as the list; regenerating resets them.
type List struct {
	items []Item
}

// NewList creates an empty list.
func NewList() *List {
	return &List{}
}

// Regenerate recomputes the items from scratch, dropping all acquired flags.
func (l *List) Regenerate(week schedule.Week, recipes Resolver) {
	l.Reset(Generate(week, recipes))
}

// Reset replaces the items with an already generated set, all unacquired.
func (l *List) Reset(items []Item) {
	l.items = slices.Clone(items)
	for i := range l.items {
		l.items[i].Acquired = false
	}
}

// Toggle flips the acquired flag of one item. It reports false for unknown ids.
func (l *List) Toggle(itemID string) bool {
	for i := range l.items {
		if l.items[i].ID == itemID {
			l.items[i].Acquired = !l.items[i].Acquired
			return true
		}
	}
	return false
}

// MarkAcquired sets the acquired flag of one item, leaving it set if it already was.
// It reports false for unknown ids.
func (l *List) MarkAcquired(itemID string) bool {
	for i := range l.items {
		if l.items[i].ID == itemID {
			l.items[i].Acquired = true
			return true
		}
	}
	return false
}

// ToggleAt flips the item at a 1-based position among the visible items.
// Chat front ends address items by number.
func (l *List) ToggleAt(position int) (Item, bool) {
	if position < 1 {
		return Item{}, false
	}
	n := 0
	for i := range l.items {
		if l.items[i].Acquired {
			continue
		}
		n++
		if n == position {
			l.items[i].Acquired = true
			return l.items[i], true
		}
	}
	return Item{}, false
}

// Items returns every item, acquired or not.
func (l *List) Items() []Item {
	return slices.Clone(l.items)
}

// Visible returns the unacquired items in list order.
func (l *List) Visible() []Item {
	out := make([]Item, 0, len(l.items))
	for _, it := range l.items {
		if !it.Acquired {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the total number of items.
func (l *List) Len() int {
	return len(l.items)
}

// Export renders items as plain text, one "<name> (<quantity>) - for <recipe>" per line.
func Export(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s (%s) - for %s", it.Name, it.Quantity, it.RecipeName))
	}
	return strings.Join(lines, "\n")
}

// Markdown renders items grouped under their recipe names.
func Markdown(items []Item) string {
	if len(items) == 0 {
		return "_Nothing to buy._\n"
	}
	var sb strings.Builder
	current := ""
	for i, it := range items {
		if i == 0 || it.RecipeID != current {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "*%s*\n", it.RecipeName)
			current = it.RecipeID
		}
		fmt.Fprintf(&sb, "• %s (%s)\n", it.Name, it.Quantity)
	}
	return sb.String()
}
