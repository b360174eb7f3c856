package books

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidRating is returned for ratings outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrInvalidStatus is returned when a reading status cannot be parsed.
	ErrInvalidStatus = errors.New("unknown reading status")
)

// ReadingStatus is where a tracked book sits on the reading shelf.
type ReadingStatus string

const (
	WantToRead ReadingStatus = "want-to-read"
	Reading    ReadingStatus = "reading"
	Completed  ReadingStatus = "completed"
)

// ParseStatus accepts the stored form or a relaxed spelling such as "want to read".
func ParseStatus(s string) (ReadingStatus, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
	switch ReadingStatus(normalized) {
	case WantToRead, Reading, Completed:
		return ReadingStatus(normalized), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// TrackedBook is a book in the personal collection.
// Rating 0 means unrated.
type TrackedBook struct {
	ID            string        `json:"id"`
	OLID          string        `json:"olid"`
	Title         string        `json:"title"`
	Author        string        `json:"author,omitempty"`
	PublishedYear int           `json:"publishedYear,omitempty"`
	ISBN          string        `json:"isbn,omitempty"`
	CoverURL      string        `json:"coverUrl,omitempty"`
	Status        ReadingStatus `json:"status"`
	Rating        int           `json:"rating,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	DateAdded     time.Time     `json:"dateAdded"`
	DateStarted   *time.Time    `json:"dateStarted,omitempty"`
	DateCompleted *time.Time    `json:"dateCompleted,omitempty"`
}

// Filters narrows the collection. Zero fields match everything.
type Filters struct {
	Status      ReadingStatus
	Rating      int
	Author      string
	SearchQuery string
}

// Match reports whether the book passes every set filter.
func (f Filters) Match(b TrackedBook) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Rating != 0 && b.Rating != f.Rating {
		return false
	}
	author := strings.ToLower(b.Author)
	if f.Author != "" && !strings.Contains(author, strings.ToLower(f.Author)) {
		return false
	}
	if f.SearchQuery != "" {
		q := strings.ToLower(f.SearchQuery)
		if !strings.Contains(strings.ToLower(b.Title), q) && !strings.Contains(author, q) {
			return false
		}
	}
	return true
}

// Candidate is a catalog search hit that has not been added to the collection.
type Candidate struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Authors          []string `json:"author_name,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	ISBNs            []string `json:"isbn,omitempty"`
	CoverID          int      `json:"cover_i,omitempty"`
}

const coverBaseURL = "https://covers.openlibrary.org/b"

// CoverURL returns the medium cover image for a catalog cover id.
func CoverURL(coverID int) string {
	return coverBaseURL + "/id/" + strconv.Itoa(coverID) + "-M.jpg"
}

// ExtractOLID pulls the work id out of a catalog key ("/works/OL123W" -> "OL123W").
// Keys in any other shape are returned unchanged.
func ExtractOLID(key string) string {
	const marker = "/works/"
	i := strings.Index(key, marker)
	if i < 0 {
		return key
	}
	rest := key[i+len(marker):]
	if j := strings.Index(rest, "/"); j >= 0 {
		rest = rest[:j]
	}
	if rest == "" {
		return key
	}
	return rest
}
