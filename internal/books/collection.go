package books

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Collection is the personal book shelf, kept in insertion order.
type Collection struct {
	books []TrackedBook
	now   func() time.Time
	newID func() string
}

// Option configures a Collection.
type Option func(*Collection)

// WithClock overrides the clock used for date stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Collection) { c.now = now }
}

// WithIDGenerator overrides how new book ids are made.
func WithIDGenerator(newID func() string) Option {
	return func(c *Collection) { c.newID = newID }
}

// NewCollection creates a collection seeded with books.
func NewCollection(books []TrackedBook, opts ...Option) *Collection {
	c := &Collection{
		books: append([]TrackedBook(nil), books...),
		now:   time.Now,
		newID: func() string { return "book-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save inserts the book, or replaces the one with the same id.
// A book without an id gets one, and a zero DateAdded is stamped.
func (c *Collection) Save(b TrackedBook) TrackedBook {
	if b.ID == "" {
		b.ID = c.newID()
	}
	if b.DateAdded.IsZero() {
		b.DateAdded = c.now().UTC()
	}
	if b.Status == "" {
		b.Status = WantToRead
	}
	if i := c.index(b.ID); i >= 0 {
		c.books[i] = b
	} else {
		c.books = append(c.books, b)
	}
	return b
}

// Get returns the book with the given id.
func (c *Collection) Get(id string) (TrackedBook, bool) {
	if i := c.index(id); i >= 0 {
		return c.books[i], true
	}
	return TrackedBook{}, false
}

// Delete removes a book, reporting whether it was present.
func (c *Collection) Delete(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.books = append(c.books[:i], c.books[i+1:]...)
	return true
}

// All returns every book in insertion order.
func (c *Collection) All() []TrackedBook {
	return append([]TrackedBook(nil), c.books...)
}

// Filter returns the books matching f, in insertion order.
func (c *Collection) Filter(f Filters) []TrackedBook {
	var out []TrackedBook
	for _, b := range c.books {
		if f.Match(b) {
			out = append(out, b)
		}
	}
	return out
}

// FindByTitle returns the first book whose title matches case-insensitively.
func (c *Collection) FindByTitle(title string) (TrackedBook, bool) {
	title = strings.TrimSpace(title)
	for _, b := range c.books {
		if strings.EqualFold(b.Title, title) {
			return b, true
		}
	}
	return TrackedBook{}, false
}

// UpdateStatus moves a book to status. The first move to reading stamps
// DateStarted and the first move to completed stamps DateCompleted.
func (c *Collection) UpdateStatus(id string, status ReadingStatus) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	b := &c.books[i]
	b.Status = status
	now := c.now().UTC()
	switch {
	case status == Reading && b.DateStarted == nil:
		b.DateStarted = &now
	case status == Completed && b.DateCompleted == nil:
		b.DateCompleted = &now
	}
	return true
}

// UpdateRating sets a 1-5 rating.
func (c *Collection) UpdateRating(id string, rating int) (bool, error) {
	if rating < 1 || rating > 5 {
		return false, ErrInvalidRating
	}
	i := c.index(id)
	if i < 0 {
		return false, nil
	}
	c.books[i].Rating = rating
	return true, nil
}

// Track turns a catalog candidate into a collection entry with the given status.
// The result is not saved.
func (c *Collection) Track(cand Candidate, status ReadingStatus) TrackedBook {
	b := TrackedBook{
		ID:            c.newID(),
		OLID:          ExtractOLID(cand.Key),
		Title:         cand.Title,
		PublishedYear: cand.FirstPublishYear,
		Status:        status,
		DateAdded:     c.now().UTC(),
	}
	if len(cand.Authors) > 0 {
		b.Author = cand.Authors[0]
	}
	if len(cand.ISBNs) > 0 {
		b.ISBN = cand.ISBNs[0]
	}
	if cand.CoverID != 0 {
		b.CoverURL = CoverURL(cand.CoverID)
	}
	if b.OLID == "" {
		b.OLID = "olid-" + b.ID
	}
	return b
}

// Len returns the number of tracked books.
func (c *Collection) Len() int {
	return len(c.books)
}

func (c *Collection) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range c.books {
		if c.books[i].ID == id {
			return i
		}
	}
	return -1
}
