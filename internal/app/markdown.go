package app

import (
	"fmt"
	"strings"

	"mealwise/internal/recipe"
	"mealwise/internal/schedule"
	"mealwise/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const emptySlot = "_(empty)_"

// EscapeMarkdown backslash-escapes the characters that open Markdown entities
// (_ * ` [), so user-supplied names render literally.
func EscapeMarkdown(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// FormatWeek renders the week as Markdown, one block per day.
// Slots whose recipe no longer exists are shown as empty.
func FormatWeek(week schedule.Week, resolve func(id string) (*recipe.Recipe, bool)) string {
	var sb strings.Builder
	for i, day := range schedule.Days {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "*%s*\n", day)
		for _, slot := range schedule.Slots {
			name := emptySlot
			if id := week.RecipeID(day, slot); id != "" {
				if r, ok := resolve(id); ok {
					name = EscapeMarkdown(r.Name)
				}
			}
			fmt.Fprintf(&sb, "%s: %s\n", slotLabel(slot), name)
		}
	}
	return sb.String()
}

func slotLabel(s schedule.Slot) string {
	v := string(s)
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

// WeekMarkdown renders the planner's current week.
func (p *Planner) WeekMarkdown() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return FormatWeek(p.schedule.Week(), p.recipes.Get)
}

// PlanMarkdown is the document published to Ghost: the week followed by its shopping list.
func (p *Planner) PlanMarkdown() string {
	var sb strings.Builder
	sb.WriteString("## This Week\n\n")
	sb.WriteString(p.WeekMarkdown())
	sb.WriteString("\n## Shopping List\n\n")
	items := p.generate()
	for i := range items {
		items[i].Name = EscapeMarkdown(items[i].Name)
		items[i].Quantity = EscapeMarkdown(items[i].Quantity)
		items[i].RecipeName = EscapeMarkdown(items[i].RecipeName)
	}
	sb.WriteString(shopping.Markdown(items))
	return sb.String()
}

// FormatRecipes lists recipe names, numbered, with ingredient counts.
func FormatRecipes(recipes []recipe.Recipe) string {
	if len(recipes) == 0 {
		return "_No recipes yet._\n"
	}
	var sb strings.Builder
	for i, r := range recipes {
		fmt.Fprintf(&sb, "%d. %s (%d ingredients)\n", i+1, EscapeMarkdown(r.Name), len(r.Ingredients))
	}
	return sb.String()
}

// FormatVisible numbers the visible shopping items so /check can address them.
func FormatVisible(items []shopping.Item) string {
	if len(items) == 0 {
		return "_Nothing left to buy._\n"
	}
	var sb strings.Builder
	for i, it := range items {
		name, recipeName := EscapeMarkdown(it.Name), EscapeMarkdown(it.RecipeName)
		if it.Quantity != "" {
			fmt.Fprintf(&sb, "%d. %s (%s) - %s\n", i+1, name, EscapeMarkdown(it.Quantity), recipeName)
			continue
		}
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, name, recipeName)
	}
	return sb.String()
}
