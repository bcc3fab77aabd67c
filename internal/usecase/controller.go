package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lipikar/internal/classify"
	"lipikar/internal/domain"
	"lipikar/internal/ports"
	"lipikar/internal/transcript"
)

var (
	ErrUnknownLanguage = errors.New("unknown dictation language")
	ErrNotSupported    = errors.New("speech recognition is not available in this environment")
)

// Config controls session behavior.
type Config struct {
	// DefaultLanguage is the language used until the first switch.
	DefaultLanguage domain.Language
	// SettleDelay is the fixed pause between tearing down a session and
	// starting its replacement during a language switch, so the platform can
	// release the audio device. Deliberately constant, not adaptive.
	SettleDelay time.Duration
}

// SessionController owns the dictation state machine: engine lifecycle,
// continuous-mode recovery, language switching, and routing of finalized
// hypotheses through the classifier into the segment store. At most one
// engine session is live at any time.
type SessionController struct {
	engine   ports.RecognitionEngine
	events   ports.EventSink
	notifier ports.Notifier
	store    *transcript.Store
	cfg      Config

	mu           sync.Mutex
	intent       bool   // true while the controller wants to be listening
	generation   uint64 // bumped by every user command; stale dials discard their session
	language     domain.Language
	lastClass    *domain.Classification
	current      *recognitionAdapter
	pendingStart *time.Timer
	runCtx       context.Context
}

func NewSessionController(
	engine ports.RecognitionEngine,
	events ports.EventSink,
	notifier ports.Notifier,
	cfg Config,
) *SessionController {
	if !cfg.DefaultLanguage.Valid() {
		cfg.DefaultLanguage = domain.LanguageHinglish
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 300 * time.Millisecond
	}
	return &SessionController{
		engine:   engine,
		events:   events,
		notifier: notifier,
		store:    transcript.NewStore(),
		cfg:      cfg,
		language: cfg.DefaultLanguage,
	}
}

// Start begins listening in the current language, or in the override if one
// is given. An already listening controller is torn down first; the old and
// the new session never overlap.
func (c *SessionController) Start(ctx context.Context, override ...domain.Language) error {
	if !c.engine.Supported() {
		return ErrNotSupported
	}

	c.mu.Lock()
	c.cancelPendingStartLocked()
	if len(override) > 0 && override[0] != "" {
		if !override[0].Valid() {
			c.mu.Unlock()
			return ErrUnknownLanguage
		}
		c.language = override[0]
	}
	language := c.language
	previous := c.current
	c.current = nil
	c.intent = false
	c.lastClass = nil
	c.runCtx = ctx
	c.generation++
	generation := c.generation
	c.mu.Unlock()

	if previous != nil {
		previous.deactivate()
		c.store.ClearInterim()
	}

	return c.startSession(ctx, language, generation, false)
}

// Stop ends listening. Handlers are detached before the session is halted so
// the resulting end event is never mistaken for an unexpected termination.
// Safe to call while idle.
func (c *SessionController) Stop() {
	c.mu.Lock()
	c.cancelPendingStartLocked()
	previous := c.current
	c.current = nil
	c.intent = false
	c.lastClass = nil
	c.generation++
	c.mu.Unlock()

	if previous != nil {
		previous.deactivate()
	}
	c.store.ClearInterim()
	c.events.InterimChanged("")
	c.events.StateChanged(c.Snapshot())
}

// SwitchLanguage updates the dictation language, effective immediately for
// the next start. While listening, the current session is torn down and a
// replacement is scheduled after the settle delay; a second switch or a stop
// cancels the scheduled start. The observed state stays listening across the
// switch.
func (c *SessionController) SwitchLanguage(ctx context.Context, language domain.Language) error {
	if !language.Valid() {
		return ErrUnknownLanguage
	}

	c.mu.Lock()
	c.cancelPendingStartLocked()
	c.language = language
	c.lastClass = nil
	c.generation++
	wasListening := c.intent
	previous := c.current
	c.current = nil
	if wasListening {
		c.runCtx = ctx
	}
	c.mu.Unlock()

	if previous != nil {
		previous.deactivate()
	}

	if !wasListening {
		c.events.StateChanged(c.Snapshot())
		return nil
	}

	c.store.ClearInterim()
	c.events.InterimChanged("")
	c.events.StateChanged(c.Snapshot())

	log.Debug().Str("language", string(language)).Dur("settle", c.cfg.SettleDelay).Msg("language switch: restart scheduled")

	c.mu.Lock()
	c.pendingStart = time.AfterFunc(c.cfg.SettleDelay, c.runPendingStart)
	c.mu.Unlock()
	return nil
}

// Clear discards the whole transcript, finalized and interim.
func (c *SessionController) Clear() {
	c.store.ClearAll()
	c.mu.Lock()
	c.lastClass = nil
	c.mu.Unlock()
	c.events.TranscriptCleared()
	c.events.StateChanged(c.Snapshot())
}

// Snapshot returns the externally observable session state.
func (c *SessionController) Snapshot() domain.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := domain.SessionSnapshot{Listening: c.intent, Language: c.language}
	if c.lastClass != nil {
		cls := *c.lastClass
		snapshot.LastClassification = &cls
	}
	return snapshot
}

// Transcript returns the store contents in one read.
func (c *SessionController) Transcript() domain.Transcript {
	return c.store.Snapshot()
}

// FullTranscript is the finalized text plus any interim text, space-joined
// and trimmed. This is the clipboard payload.
func (c *SessionController) FullTranscript() string {
	return strings.TrimSpace(c.store.FullText() + " " + c.store.Interim())
}

func (c *SessionController) engineConfig(language domain.Language) ports.EngineConfig {
	return ports.EngineConfig{
		Locale:          language.Locale(),
		Continuous:      true,
		InterimResults:  true,
		MaxAlternatives: 1,
	}
}

// startSession constructs and activates a fresh engine session. On
// construction failure the controller stays idle and the error is surfaced;
// there is no retry. Constructing the session can block (it may dial out),
// so the generation captured by the caller is revalidated under the lock
// before the session is installed: a command issued during the dial makes it
// stale, and a stale session is halted and discarded, never installed.
func (c *SessionController) startSession(ctx context.Context, language domain.Language, generation uint64, restart bool) error {
	session, err := c.engine.Start(ctx, c.engineConfig(language))

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		if err == nil {
			_ = session.Stop()
			log.Debug().Str("language", string(language)).Msg("stale engine session discarded")
		}
		return nil
	}
	if err != nil {
		c.intent = false
		c.lastClass = nil
		c.mu.Unlock()
		log.Warn().Err(err).Str("language", string(language)).Msg("engine session construction failed")
		c.events.SessionError(domain.ErrorCodeEngine, err.Error())
		c.events.StateChanged(c.Snapshot())
		return fmt.Errorf("start recognition session: %w", err)
	}

	var adapter *recognitionAdapter
	adapter = newRecognitionAdapter(session, adapterHandlers{
		onHypothesis: func(finalChunk, interimChunk string) { c.handleHypothesis(adapter, finalChunk, interimChunk) },
		onError:      func(engineErr domain.EngineError) { c.handleEngineError(adapter, engineErr) },
		onEnded:      func() { c.handleSessionEnded(adapter) },
	})
	c.current = adapter
	c.intent = true
	c.mu.Unlock()

	adapter.activate()
	log.Debug().Str("locale", language.Locale()).Bool("restart", restart).Msg("engine session live")

	if !restart {
		c.events.StateChanged(c.Snapshot())
	}
	return nil
}

// runPendingStart fires after the settle delay of a language switch. The
// listening intent is re-checked here, at handling time, because it can
// change while the delay elapses.
func (c *SessionController) runPendingStart() {
	c.mu.Lock()
	c.pendingStart = nil
	if !c.intent || c.current != nil {
		c.mu.Unlock()
		return
	}
	language := c.language
	ctx := c.runCtx
	generation := c.generation
	c.mu.Unlock()

	_ = c.startSession(ctx, language, generation, true)
}

func (c *SessionController) cancelPendingStartLocked() {
	if c.pendingStart != nil {
		c.pendingStart.Stop()
		c.pendingStart = nil
	}
}

// handleHypothesis routes one notification from the live adapter. A
// non-empty final chunk wins over interim text carried in the same
// notification; otherwise the interim slot is overwritten wholesale, empty
// included.
func (c *SessionController) handleHypothesis(adapter *recognitionAdapter, finalChunk, interimChunk string) {
	c.mu.Lock()
	stale := c.current != adapter
	c.mu.Unlock()
	if stale {
		return
	}

	finalText := strings.TrimSpace(finalChunk)
	if finalText != "" {
		cls := classify.Classify(finalText)
		segment := domain.Segment{ID: uuid.NewString(), Text: finalText, Classification: cls}
		c.store.Append(segment)
		c.store.ClearInterim()

		c.mu.Lock()
		if c.current == adapter {
			c.lastClass = &cls
		}
		c.mu.Unlock()

		c.events.SegmentAppended(segment)
		c.events.InterimChanged("")
		c.events.StateChanged(c.Snapshot())
		return
	}

	c.store.SetInterim(interimChunk)
	c.events.InterimChanged(interimChunk)
}

// handleEngineError absorbs classified engine failures. Only a permission
// denial reaches the user; it clears the listening intent so the ended event
// that follows cannot auto-restart.
func (c *SessionController) handleEngineError(adapter *recognitionAdapter, engineErr domain.EngineError) {
	switch engineErr.Kind {
	case domain.EngineErrPermissionDenied:
		c.mu.Lock()
		if c.current != adapter {
			c.mu.Unlock()
			return
		}
		c.current = nil
		c.intent = false
		c.lastClass = nil
		c.mu.Unlock()

		adapter.halt()
		c.store.ClearInterim()

		log.Warn().Str("detail", engineErr.Detail).Msg("microphone permission denied")
		c.notifier.MicrophoneDenied(engineErr.Detail)
		c.events.SessionError(domain.ErrorCodePermission, engineErr.Detail)
		c.events.InterimChanged("")
		c.events.StateChanged(c.Snapshot())
	case domain.EngineErrNoSpeechTimeout, domain.EngineErrAborted:
		// Expected during continuous listening; the ended path resumes.
		log.Debug().Str("kind", string(engineErr.Kind)).Msg("benign engine error suppressed")
	default:
		log.Warn().Str("kind", string(engineErr.Kind)).Str("detail", engineErr.Detail).Msg("unclassified engine error")
	}
}

// handleSessionEnded recovers continuous listening. The guard reads the
// current intent at the moment the event is handled; an event from an
// adapter that is no longer current is stale and ignored, which keeps
// restart idempotent under rapid repeated end events.
func (c *SessionController) handleSessionEnded(adapter *recognitionAdapter) {
	c.mu.Lock()
	if c.current != adapter {
		c.mu.Unlock()
		return
	}
	c.current = nil
	if !c.intent {
		c.mu.Unlock()
		return
	}
	language := c.language
	ctx := c.runCtx
	generation := c.generation
	c.mu.Unlock()

	adapter.detach()
	log.Debug().Str("language", string(language)).Msg("engine session ended unexpectedly; restarting")
	_ = c.startSession(ctx, language, generation, true)
}
