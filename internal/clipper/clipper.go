package clipper

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"text/template"
	"time"

	"mealwise/internal/llm"
	"mealwise/internal/recipe"
	"mealwise/internal/shared"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed extractor_prompt.md
var extractorPrompt string

var promptTemplate = template.Must(template.New("extractor").Parse(extractorPrompt))

// maxContentRunes caps the page text sent to the model.
const maxContentRunes = 12000

// Clipper handles fetching and extracting recipes from URLs and HTML posts.
type Clipper struct {
	textGen   llm.TextGenerator
	http      *resty.Client
	sanitizer *bluemonday.Policy
}

// Result is a recipe extracted by the model, not yet stored.
type Result struct {
	Recipe recipe.Recipe
	Source string
	Meta   shared.AgentMeta
}

type extractedIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type extractedRecipe struct {
	Name         string                `json:"name"`
	Ingredients  []extractedIngredient `json:"ingredients"`
	Instructions string                `json:"instructions"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		textGen: textGen,
		http: resty.New().
			SetTimeout(15*time.Second).
			SetHeader("User-Agent", "mealwise/1.0 (+recipe clipper)"),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// ClipURL fetches the page and extracts its recipe.
func (c *Clipper) ClipURL(ctx context.Context, url string) (Result, error) {
	title, content, err := c.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch content: %w", err)
	}
	res, err := c.extract(ctx, title, content)
	if err != nil {
		return res, err
	}
	res.Source = url
	return res, nil
}

// ExtractHTML extracts a recipe from an HTML fragment, such as an imported blog post.
func (c *Clipper) ExtractHTML(ctx context.Context, title, body string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse html: %w", err)
	}
	return c.extract(ctx, title, cleanText(doc))
}

func (c *Clipper) fetchAndCleanHTML(ctx context.Context, url string) (string, string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", "", err
	}

	if resp.StatusCode() != http.StatusOK {
		return "", "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", "", err
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	return title, cleanText(doc), nil
}

// cleanText drops page chrome and collapses whitespace.
func cleanText(doc *goquery.Document) string {
	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, header, iframe, noscript, form, .ads, #ads, .comments").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	text := strings.Join(strings.Fields(root.Text()), " ")

	if r := []rune(text); len(r) > maxContentRunes {
		text = string(r[:maxContentRunes])
	}
	return text
}

func (c *Clipper) extract(ctx context.Context, title, content string) (Result, error) {
	start := time.Now()

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, struct{ Title, Content string }{title, content}); err != nil {
		return Result{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	llmResp, err := c.textGen.GenerateContent(ctx, buf.String())
	if err != nil {
		return Result{}, fmt.Errorf("ai extraction failed: %w", err)
	}
	meta := shared.AgentMeta{AgentName: "Clipper", Usage: llmResp.Usage, Latency: time.Since(start)}

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(llmResp.Content), &extracted); err != nil {
		return Result{Meta: meta}, fmt.Errorf("failed to parse AI response: %w", err)
	}

	rec := c.toRecipe(extracted, title)
	if err := rec.Validate(); err != nil {
		return Result{Meta: meta}, err
	}
	return Result{Recipe: rec, Meta: meta}, nil
}

// toRecipe strips any markup the model echoed back and drops empty ingredients.
func (c *Clipper) toRecipe(e extractedRecipe, fallbackName string) recipe.Recipe {
	clean := func(s string) string {
		return strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(s)))
	}

	r := recipe.Recipe{
		Name:         clean(e.Name),
		Instructions: clean(e.Instructions),
	}
	if r.Name == "" {
		r.Name = clean(fallbackName)
	}
	for _, ing := range e.Ingredients {
		name := clean(ing.Name)
		if name == "" {
			continue
		}
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{Name: name, Quantity: clean(ing.Quantity)})
	}
	return r
}
