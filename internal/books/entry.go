package books

// Kind tells which case an Entry holds.
type Kind int

const (
	KindCandidate Kind = iota
	KindTracked
)

func (k Kind) String() string {
	if k == KindTracked {
		return "tracked"
	}
	return "candidate"
}

// Entry is either a catalog candidate or a tracked book. The case is fixed
// when the entry is built, so forms and list views never have to guess.
type Entry struct {
	kind      Kind
	candidate Candidate
	tracked   TrackedBook
}

// CandidateEntry wraps a catalog search result.
func CandidateEntry(c Candidate) Entry {
	return Entry{kind: KindCandidate, candidate: c}
}

// TrackedEntry wraps a book already in the collection.
func TrackedEntry(b TrackedBook) Entry {
	return Entry{kind: KindTracked, tracked: b}
}

func (e Entry) Kind() Kind { return e.kind }

// Candidate returns the wrapped candidate, if that is the case held.
func (e Entry) Candidate() (Candidate, bool) {
	return e.candidate, e.kind == KindCandidate
}

// Tracked returns the wrapped book, if that is the case held.
func (e Entry) Tracked() (TrackedBook, bool) {
	return e.tracked, e.kind == KindTracked
}

// Title is shared by both cases.
func (e Entry) Title() string {
	if e.kind == KindTracked {
		return e.tracked.Title
	}
	return e.candidate.Title
}
