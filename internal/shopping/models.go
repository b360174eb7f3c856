package shopping

// Item is one line of the shopping list: an ingredient attributed to the recipe
// that needs it. Items are derived from the schedule and never persisted.
type Item struct {
	ID           string `json:"id"`
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity"`
	RecipeID     string `json:"recipe_id"`
	RecipeName   string `json:"recipe_name"`
	Acquired     bool   `json:"acquired"`
}
