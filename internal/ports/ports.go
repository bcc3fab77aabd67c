package ports

import (
	"context"

	"lipikar/internal/domain"
)

// EngineConfig is fixed at session construction; one config per activation.
type EngineConfig struct {
	Locale          string
	Continuous      bool
	InterimResults  bool
	MaxAlternatives int
}

// EngineSession is one live recognition-engine activation. Events is closed
// when the underlying session terminates; the final event on the channel is
// the ended notification.
type EngineSession interface {
	Events() <-chan domain.EngineEvent
	Stop() error
}

// RecognitionEngine creates recognition sessions. The engine is an opaque
// external capability: given an audio source it controls and a locale hint,
// it produces a stream of transcript hypotheses.
type RecognitionEngine interface {
	Start(ctx context.Context, cfg EngineConfig) (EngineSession, error)
	Supported() bool
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// Notifier raises user-facing system notices outside the main window.
type Notifier interface {
	MicrophoneDenied(detail string)
}

// EventSink pushes controller state to the UI.
type EventSink interface {
	StateChanged(snapshot domain.SessionSnapshot)
	InterimChanged(text string)
	SegmentAppended(segment domain.Segment)
	TranscriptCleared()
	SessionError(code domain.ErrorCode, detail string)
}
