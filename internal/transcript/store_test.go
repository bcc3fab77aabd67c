package transcript

import (
	"strconv"
	"testing"

	"lipikar/internal/domain"
)

func segment(id, text string) domain.Segment {
	return domain.Segment{ID: id, Text: text}
}

func TestStoreAppendPreservesArrivalOrder(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(segment("1", "A"))
	store.Append(segment("2", "B"))

	if got := store.FullText(); got != "A B" {
		t.Fatalf("unexpected full text: %q", got)
	}

	segments := store.Segments()
	if len(segments) != 2 || segments[0].Text != "A" || segments[1].Text != "B" {
		t.Fatalf("unexpected segments: %+v", segments)
	}
}

func TestStoreAppendDoesNotDeduplicate(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(segment("1", "same"))
	store.Append(segment("2", "same"))

	if got := store.FullText(); got != "same same" {
		t.Fatalf("unexpected full text: %q", got)
	}
}

func TestStoreInterimOverwrite(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.SetInterim("hel")
	store.SetInterim("hello wor")
	if got := store.Interim(); got != "hello wor" {
		t.Fatalf("unexpected interim: %q", got)
	}

	store.ClearInterim()
	if got := store.Interim(); got != "" {
		t.Fatalf("interim not cleared: %q", got)
	}
}

func TestStoreClearAllIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(segment("1", "hello"))
	store.SetInterim("wor")

	store.ClearAll()
	store.ClearAll()

	if got := store.FullText(); got != "" {
		t.Fatalf("expected empty full text, got %q", got)
	}
	if got := store.Interim(); got != "" {
		t.Fatalf("expected empty interim, got %q", got)
	}
	if len(store.Segments()) != 0 {
		t.Fatalf("expected empty log")
	}
}

func TestStoreCounts(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(segment("1", "नमस्ते दोस्त"))
	store.Append(segment("2", "hello"))

	if got := store.WordCount(); got != 3 {
		t.Fatalf("unexpected word count: %d", got)
	}
	// Rune count, not byte count.
	want := len([]rune("नमस्ते दोस्त hello"))
	if got := store.CharCount(); got != want {
		t.Fatalf("unexpected char count: %d (want %d)", got, want)
	}
}

func TestStoreSnapshotIsDetachedCopy(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(segment("1", "hello"))
	snap := store.Snapshot()

	snap.Segments[0].Text = "mutated"
	if got := store.FullText(); got != "hello" {
		t.Fatalf("snapshot mutation leaked into store: %q", got)
	}
	if snap.WordCount != 1 || snap.CharCount != 5 {
		t.Fatalf("unexpected counts: %+v", snap)
	}
}

func TestStoreSnapshotConsistentUnderConcurrentAppends(t *testing.T) {
	t.Parallel()

	store := NewStore()
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Single-word segments, so word count must always equal segment count.
		for i := 0; i < 200; i++ {
			store.Append(segment(strconv.Itoa(i), "word"))
		}
	}()

	for {
		snap := store.Snapshot()
		if snap.WordCount != len(snap.Segments) {
			t.Fatalf("snapshot torn: %d words for %d segments", snap.WordCount, len(snap.Segments))
		}
		wantChars := 0
		if n := len(snap.Segments); n > 0 {
			wantChars = 5*n - 1
		}
		if snap.CharCount != wantChars {
			t.Fatalf("snapshot torn: %d chars for %d segments", snap.CharCount, len(snap.Segments))
		}
		select {
		case <-done:
			return
		default:
		}
	}
}
