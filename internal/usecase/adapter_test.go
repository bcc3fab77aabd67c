package usecase

import (
	"context"
	"sync"
	"testing"

	"lipikar/internal/domain"
	"lipikar/internal/ports"
)

type handlerRecorder struct {
	mu         sync.Mutex
	hypotheses [][2]string
	errs       []domain.EngineError
	ended      int
}

func (r *handlerRecorder) handlers() adapterHandlers {
	return adapterHandlers{
		onHypothesis: func(finalChunk, interimChunk string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.hypotheses = append(r.hypotheses, [2]string{finalChunk, interimChunk})
		},
		onError: func(err domain.EngineError) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		},
		onEnded: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.ended++
		},
	}
}

func (r *handlerRecorder) snapshot() ([][2]string, []domain.EngineError, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hyp := make([][2]string, len(r.hypotheses))
	copy(hyp, r.hypotheses)
	errs := make([]domain.EngineError, len(r.errs))
	copy(errs, r.errs)
	return hyp, errs, r.ended
}

func startFakeSession(t *testing.T) *fakeEngineSession {
	t.Helper()
	engine := newFakeEngine()
	raw, err := engine.Start(context.Background(), ports.EngineConfig{})
	if err != nil {
		t.Fatalf("fake start failed: %v", err)
	}
	return raw.(*fakeEngineSession)
}

func TestAdapterBatchesChunksWithinOneNotification(t *testing.T) {
	t.Parallel()

	session := startFakeSession(t)
	recorder := &handlerRecorder{}
	adapter := newRecognitionAdapter(session, recorder.handlers())
	adapter.activate()

	session.emitHypothesis([]string{"first", "second"}, []string{"third", "", "fourth"})
	session.end()
	<-adapter.done

	hypotheses, _, _ := recorder.snapshot()
	if len(hypotheses) != 1 {
		t.Fatalf("expected one dispatched hypothesis, got %d", len(hypotheses))
	}
	if hypotheses[0][0] != "first second" {
		t.Fatalf("unexpected final chunk: %q", hypotheses[0][0])
	}
	if hypotheses[0][1] != "third fourth" {
		t.Fatalf("unexpected interim chunk: %q", hypotheses[0][1])
	}
}

func TestAdapterDetachDiscardsQueuedEvents(t *testing.T) {
	t.Parallel()

	session := startFakeSession(t)
	recorder := &handlerRecorder{}
	adapter := newRecognitionAdapter(session, recorder.handlers())

	// Queue events before the consume loop runs, then detach: nothing the
	// session had queued but not delivered may be dispatched.
	session.emitHypothesis([]string{"stale"}, nil)
	session.emitError(domain.EngineErrOther, "stale")
	session.end()
	adapter.detach()
	adapter.activate()
	<-adapter.done

	hypotheses, errs, ended := recorder.snapshot()
	if len(hypotheses) != 0 || len(errs) != 0 || ended != 0 {
		t.Fatalf("detached adapter dispatched events: %v %v %d", hypotheses, errs, ended)
	}
}

func TestAdapterDeactivateNeverDispatchesEnded(t *testing.T) {
	t.Parallel()

	session := startFakeSession(t)
	recorder := &handlerRecorder{}
	adapter := newRecognitionAdapter(session, recorder.handlers())
	adapter.activate()

	adapter.deactivate()

	if session.stopCount() != 1 {
		t.Fatalf("expected underlying session stop, got %d", session.stopCount())
	}
	_, _, ended := recorder.snapshot()
	if ended != 0 {
		t.Fatalf("controller-requested halt was reinterpreted as an unexpected end")
	}
}

func TestAdapterSynthesizesEndedOnSilentTermination(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	raw, err := engine.Start(context.Background(), ports.EngineConfig{})
	if err != nil {
		t.Fatalf("fake start failed: %v", err)
	}
	session := raw.(*fakeEngineSession)

	recorder := &handlerRecorder{}
	adapter := newRecognitionAdapter(session, recorder.handlers())
	adapter.activate()

	// Channel closes without an explicit ended event.
	session.mu.Lock()
	session.terminateLocked()
	session.mu.Unlock()
	<-adapter.done

	_, _, ended := recorder.snapshot()
	if ended != 1 {
		t.Fatalf("expected synthesized ended event, got %d", ended)
	}
}

func TestAdapterErrorsPassThroughClassified(t *testing.T) {
	t.Parallel()

	session := startFakeSession(t)
	recorder := &handlerRecorder{}
	adapter := newRecognitionAdapter(session, recorder.handlers())
	adapter.activate()

	session.emitError(domain.EngineErrPermissionDenied, "not-allowed")
	session.end()
	<-adapter.done

	_, errs, _ := recorder.snapshot()
	if len(errs) != 1 || errs[0].Kind != domain.EngineErrPermissionDenied || errs[0].Detail != "not-allowed" {
		t.Fatalf("unexpected errors: %+v", errs)
	}
}
