// Package transcript holds the ordered log of finalized dictation segments
// plus the single in-progress interim slot.
package transcript

import (
	"strings"
	"sync"
	"unicode/utf8"

	"lipikar/internal/domain"
)

// Store is an append-only segment log. Finalized segments are never merged or
// deduplicated; only ClearAll empties the log.
type Store struct {
	mu       sync.Mutex
	segments []domain.Segment
	interim  string
}

func NewStore() *Store {
	return &Store{}
}

// Append adds a finalized segment to the end of the log.
func (s *Store) Append(segment domain.Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = append(s.segments, segment)
}

// SetInterim overwrites the interim slot wholesale.
func (s *Store) SetInterim(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interim = text
}

// ClearInterim empties the interim slot.
func (s *Store) ClearInterim() {
	s.SetInterim("")
}

// ClearAll empties both the segment log and the interim slot.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = nil
	s.interim = ""
}

// Segments returns a copy of the finalized log in arrival order.
func (s *Store) Segments() []domain.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// Interim returns the current interim text.
func (s *Store) Interim() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interim
}

// FullText joins all finalized segment texts with a single space, in arrival
// order. Recomputed on every call; the log carries no derived state.
func (s *Store) FullText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullTextLocked()
}

func (s *Store) fullTextLocked() string {
	parts := make([]string, 0, len(s.segments))
	for _, segment := range s.segments {
		parts = append(parts, segment.Text)
	}
	return strings.Join(parts, " ")
}

// WordCount counts whitespace-delimited non-empty tokens in the full text.
func (s *Store) WordCount() int {
	return len(strings.Fields(s.FullText()))
}

// CharCount counts runes in the full text.
func (s *Store) CharCount() int {
	return utf8.RuneCountInString(s.FullText())
}

// Snapshot returns the store contents as one frontend-ready read. Taken under
// a single lock so the counts always agree with the segment slice.
func (s *Store) Snapshot() domain.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	segments := make([]domain.Segment, len(s.segments))
	copy(segments, s.segments)
	text := s.fullTextLocked()
	return domain.Transcript{
		Segments:  segments,
		Interim:   s.interim,
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
	}
}
