// Package suggest asks the language model for recipe ideas.
package suggest

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"mealwise/internal/llm"
	"mealwise/internal/shared"
)

//go:embed suggest_prompt.md
var suggestPrompt string

var promptTemplate = template.Must(template.New("suggest").Parse(suggestPrompt))

// MaxSuggestions bounds how many names are asked for and returned.
const MaxSuggestions = 8

// ErrEmptyRequest is returned when neither preferences nor ingredients are given.
var ErrEmptyRequest = errors.New("dietary preferences or available ingredients are required")

type promptData struct {
	DietaryPreferences   string
	AvailableIngredients string
	Max                  int
}

// Result holds the suggested recipe names.
type Result struct {
	Recipes []string
	Meta    shared.AgentMeta
}

// Suggester turns preferences and pantry contents into recipe ideas.
type Suggester struct {
	textGen llm.TextGenerator
}

// NewSuggester creates a new Suggester.
func NewSuggester(textGen llm.TextGenerator) *Suggester {
	return &Suggester{textGen: textGen}
}

// Suggest returns up to MaxSuggestions distinct recipe names.
func (s *Suggester) Suggest(ctx context.Context, dietaryPreferences, availableIngredients string) (Result, error) {
	dietaryPreferences = strings.TrimSpace(dietaryPreferences)
	availableIngredients = strings.TrimSpace(availableIngredients)
	if dietaryPreferences == "" && availableIngredients == "" {
		return Result{}, ErrEmptyRequest
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{
		DietaryPreferences:   dietaryPreferences,
		AvailableIngredients: availableIngredients,
		Max:                  MaxSuggestions,
	}); err != nil {
		return Result{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	resp, err := s.textGen.GenerateContent(ctx, buf.String())
	if err != nil {
		return Result{}, fmt.Errorf("failed to get LLM response: %w", err)
	}
	meta := shared.AgentMeta{AgentName: "Suggester", Usage: resp.Usage, Latency: time.Since(start)}

	var raw struct {
		Recipes []string `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &raw); err != nil {
		return Result{Meta: meta}, fmt.Errorf("failed to unmarshal LLM response: %w", err)
	}

	return Result{Recipes: dedupe(raw.Recipes), Meta: meta}, nil
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
