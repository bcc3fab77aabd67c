package usecase

import (
	"strings"
	"sync"

	"lipikar/internal/domain"
	"lipikar/internal/ports"
)

type adapterHandlers struct {
	onHypothesis func(finalChunk string, interimChunk string)
	onError      func(err domain.EngineError)
	onEnded      func()
}

// recognitionAdapter owns exactly one live engine session and translates its
// raw event stream into controller callbacks. Once detached it dispatches
// nothing: events the session queued but had not delivered are discarded.
type recognitionAdapter struct {
	session  ports.EngineSession
	handlers adapterHandlers

	mu       sync.Mutex
	detached bool

	done chan struct{}
}

func newRecognitionAdapter(session ports.EngineSession, handlers adapterHandlers) *recognitionAdapter {
	return &recognitionAdapter{
		session:  session,
		handlers: handlers,
		done:     make(chan struct{}),
	}
}

// activate starts consuming the session's event stream.
func (a *recognitionAdapter) activate() {
	go a.consume()
}

// detach disables all further dispatch. It must happen before the underlying
// session is halted so a controller-requested halt is never reinterpreted as
// an unexpected end.
func (a *recognitionAdapter) detach() {
	a.mu.Lock()
	a.detached = true
	a.mu.Unlock()
}

// halt detaches and stops the underlying session without waiting for the
// consume goroutine. Safe to call from inside a dispatched callback.
func (a *recognitionAdapter) halt() {
	a.detach()
	_ = a.session.Stop()
}

// deactivate detaches, stops the session, and waits for the consume
// goroutine to drain. Must not be called from a dispatched callback.
func (a *recognitionAdapter) deactivate() {
	a.halt()
	<-a.done
}

func (a *recognitionAdapter) consume() {
	defer close(a.done)

	ended := false
	for event := range a.session.Events() {
		switch event.Kind {
		case domain.EngineEventHypothesis:
			finalChunk := joinChunks(event.Hypothesis.Finals)
			interimChunk := joinChunks(event.Hypothesis.Interims)
			a.dispatch(func() { a.handlers.onHypothesis(finalChunk, interimChunk) })
		case domain.EngineEventError:
			err := event.Err
			a.dispatch(func() { a.handlers.onError(err) })
		case domain.EngineEventEnded:
			ended = true
			a.dispatch(a.handlers.onEnded)
		}
	}

	// A session that disappears without an explicit ended event still ended.
	if !ended {
		a.dispatch(a.handlers.onEnded)
	}
}

func (a *recognitionAdapter) dispatch(fn func()) {
	a.mu.Lock()
	detached := a.detached
	a.mu.Unlock()
	if detached {
		return
	}
	fn()
}

// joinChunks concatenates the pieces of one notification into a single
// chunk, preserving order within the notification only.
func joinChunks(pieces []string) string {
	kept := pieces[:0:0]
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		kept = append(kept, piece)
	}
	return strings.Join(kept, " ")
}
