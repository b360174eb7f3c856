package app

import (
	"context"
	"fmt"
	"time"

	"mealwise/internal/clipper"
	"mealwise/internal/recipe"

	"go.uber.org/zap"
)

// ImportSummary counts what an import did with each post.
type ImportSummary struct {
	Imported int
	Skipped  int
	Failed   int
}

// ClipURL extracts a recipe from a web page, adds it to the collection and saves.
func (a *App) ClipURL(ctx context.Context, url string) (recipe.Recipe, error) {
	gen, err := a.generator(ctx)
	if err != nil {
		return recipe.Recipe{}, err
	}

	res, err := clipper.NewClipper(gen).ClipURL(ctx, url)
	a.recordMeta(ctx, res.Meta)
	if err != nil {
		return recipe.Recipe{}, err
	}

	added, err := a.planner.AddRecipe(res.Recipe)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to add recipe: %w", err)
	}
	if err := a.Save(ctx); err != nil {
		return recipe.Recipe{}, err
	}
	a.logger.Info("Recipe clipped", zap.String("name", added.Name), zap.String("url", url))
	return added, nil
}

// ImportGhost pulls recipe posts from Ghost and adds the ones whose title is not
// already a recipe name. A post that fails extraction is logged and skipped.
func (a *App) ImportGhost(ctx context.Context) (ImportSummary, error) {
	var sum ImportSummary

	client, err := a.ghost()
	if err != nil {
		return sum, err
	}
	gen, err := a.generator(ctx)
	if err != nil {
		return sum, err
	}

	posts, err := client.FetchRecipes(ctx)
	if err != nil {
		return sum, fmt.Errorf("failed to fetch recipes from ghost: %w", err)
	}
	a.logger.Info("Fetched recipe posts", zap.Int("count", len(posts)))

	c := clipper.NewClipper(gen)
	for i, post := range posts {
		if _, exists := a.planner.FindRecipe(post.Title); exists {
			a.logger.Debug("Recipe already imported", zap.String("title", post.Title))
			sum.Skipped++
			continue
		}

		if i > 0 && a.importDelay > 0 {
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			case <-time.After(a.importDelay):
			}
		}

		res, err := c.ExtractHTML(ctx, post.Title, post.HTML)
		a.recordMeta(ctx, res.Meta)
		if err != nil {
			a.logger.Warn("Failed to extract recipe", zap.String("title", post.Title), zap.Error(err))
			sum.Failed++
			continue
		}
		res.Recipe.Name = post.Title
		if _, err := a.planner.AddRecipe(res.Recipe); err != nil {
			a.logger.Warn("Failed to add recipe", zap.String("title", post.Title), zap.Error(err))
			sum.Failed++
			continue
		}
		sum.Imported++
	}

	if sum.Imported > 0 {
		if err := a.Save(ctx); err != nil {
			return sum, err
		}
	}
	a.logger.Info("Ingestion complete",
		zap.Int("imported", sum.Imported),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed))
	return sum, nil
}
