package app

import (
	"context"
	"fmt"
	"sync"

	"mealwise/internal/books"
	"mealwise/internal/recipe"
	"mealwise/internal/schedule"
	"mealwise/internal/shopping"
	"mealwise/internal/storage"

	"go.uber.org/zap"
)

// Planner is the single owner of the recipe collection, the weekly schedule,
// and the book shelf. Shopping lists live in Sessions. Every method takes the lock,
// so front ends running on several goroutines see one writer at a time.
type Planner struct {
	mu sync.Mutex

	recipes  *recipe.Collection
	schedule *schedule.Store
	books    *books.Collection

	recipeRepo   *recipe.Repository
	scheduleRepo *schedule.Repository
	bookRepo     *books.Repository
}

// PlannerOptions tune how a Planner is loaded. Zero values use production defaults.
type PlannerOptions struct {
	Intn        schedule.IntnFunc
	BookOptions []books.Option
}

// LoadPlanner restores all collections from kv.
func LoadPlanner(ctx context.Context, kv storage.KV, logger *zap.Logger, opts PlannerOptions) (*Planner, error) {
	p := &Planner{
		recipeRepo:   recipe.NewRepository(kv, logger),
		scheduleRepo: schedule.NewRepository(kv, logger),
		bookRepo:     books.NewRepository(kv, logger, opts.BookOptions...),
	}

	var err error
	if p.recipes, err = p.recipeRepo.Load(ctx); err != nil {
		return nil, err
	}
	week, err := p.scheduleRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	p.schedule = schedule.NewStore(week, p.recipes, opts.Intn)
	if p.books, err = p.bookRepo.Load(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Save persists recipes, schedule and books.
func (p *Planner) Save(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.recipeRepo.Save(ctx, p.recipes); err != nil {
		return err
	}
	if err := p.scheduleRepo.Save(ctx, p.schedule.Week()); err != nil {
		return err
	}
	if err := p.bookRepo.Save(ctx, p.books); err != nil {
		return err
	}
	return nil
}

// --- recipes ---

// AddRecipe validates and stores a new recipe.
func (p *Planner) AddRecipe(r recipe.Recipe) (recipe.Recipe, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recipes.Add(r)
}

// UpdateRecipe replaces an existing recipe.
func (p *Planner) UpdateRecipe(r recipe.Recipe) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recipes.Update(r)
}

// DeleteRecipe removes a recipe. Schedule slots that referenced it keep the id
// and resolve to nothing until reassigned.
func (p *Planner) DeleteRecipe(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recipes.Delete(id)
}

// Recipe looks a recipe up by id.
func (p *Planner) Recipe(id string) (*recipe.Recipe, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recipes.Get(id)
}

// FindRecipe looks a recipe up by its name, ignoring case.
func (p *Planner) FindRecipe(name string) (*recipe.Recipe, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recipes.FindByName(name)
}

// Recipes lists every recipe in insertion order.
func (p *Planner) Recipes() []recipe.Recipe {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recipes.List()
}

// ResolveRecipe accepts either an id or a name.
func (p *Planner) ResolveRecipe(ref string) (*recipe.Recipe, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.recipes.Get(ref); ok {
		return r, nil
	}
	if r, ok := p.recipes.FindByName(ref); ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %q", recipe.ErrNotFound, ref)
}

// --- schedule ---

// Assign puts a recipe id in a slot; an empty id clears it.
func (p *Planner) Assign(day schedule.Day, slot schedule.Slot, recipeID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.schedule.Assign(day, slot, recipeID)
}

// Move drags a slot's recipe to another slot.
func (p *Planner) Move(fromDay schedule.Day, fromSlot schedule.Slot, toDay schedule.Day, toSlot schedule.Slot) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.schedule.Move(fromDay, fromSlot, toDay, toSlot)
}

// Clear empties the whole week.
func (p *Planner) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.schedule.Clear()
}

// AutoFill fills every slot with a random recipe.
func (p *Planner) AutoFill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.schedule.AutoFill()
}

// Slot resolves the recipe planned for one slot.
func (p *Planner) Slot(day schedule.Day, slot schedule.Slot) (*recipe.Recipe, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.schedule.Get(day, slot)
}

// Week returns a snapshot of the schedule.
func (p *Planner) Week() schedule.Week {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.schedule.Week()
}

// --- shopping ---

// generate derives the items for the current week. Sessions hold the acquired flags.
func (p *Planner) generate() []shopping.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return shopping.Generate(p.schedule.Week(), p.recipes)
}

// --- books ---

// SaveBook inserts or replaces a tracked book.
func (p *Planner) SaveBook(b books.TrackedBook) books.TrackedBook {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.books.Save(b)
}

// TrackBook adds a catalog candidate to the shelf.
func (p *Planner) TrackBook(c books.Candidate, status books.ReadingStatus) books.TrackedBook {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.books.Save(p.books.Track(c, status))
}

// Books returns the shelf narrowed by f.
func (p *Planner) Books(f books.Filters) []books.TrackedBook {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.books.Filter(f)
}

// Book looks a tracked book up by id, then by title.
func (p *Planner) Book(ref string) (books.TrackedBook, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if b, ok := p.books.Get(ref); ok {
		return b, true
	}
	return p.books.FindByTitle(ref)
}

// UpdateBookStatus moves a book along the reading shelf.
func (p *Planner) UpdateBookStatus(id string, status books.ReadingStatus) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.books.UpdateStatus(id, status)
}

// RateBook sets a 1-5 rating.
func (p *Planner) RateBook(id string, rating int) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.books.UpdateRating(id, rating)
}

// RemoveBook deletes a book from the shelf.
func (p *Planner) RemoveBook(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.books.Delete(id)
}
