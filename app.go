package main

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"lipikar/internal/bootstrap"
	"lipikar/internal/config"
	"lipikar/internal/domain"
	"lipikar/internal/ports"
	"lipikar/internal/usecase"
)

var errNotInitialized = errors.New("application is not initialized")

const (
	eventState   = "lipikar:state"
	eventInterim = "lipikar:interim"
	eventSegment = "lipikar:segment"
	eventCleared = "lipikar:cleared"
	eventError   = "lipikar:error"
)

// App is the Wails application root. It implements ports.EventSink and owns
// everything the frontend is allowed to see.
type App struct {
	ctx context.Context

	controller *usecase.SessionController
	clipboard  ports.Clipboard
	cfg        config.Config
	supported  bool
	bootErr    error
}

func NewApp() *App {
	return &App{clipboard: &wailsClipboard{}}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.controller = services.Controller
	a.supported = services.Supported
	a.StateChanged(a.controller.Snapshot())
}

// StartListening begins dictation; a non-empty language overrides the
// current selection.
func (a *App) StartListening(language string) (domain.SessionSnapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.SessionSnapshot{}, err
	}

	if language == "" {
		if err := a.controller.Start(a.ctx); err != nil {
			return a.controller.Snapshot(), err
		}
		return a.controller.Snapshot(), nil
	}

	lang, err := parseLanguage(language)
	if err != nil {
		return a.controller.Snapshot(), err
	}
	if err := a.controller.Start(a.ctx, lang); err != nil {
		return a.controller.Snapshot(), err
	}
	return a.controller.Snapshot(), nil
}

// StopListening ends dictation. Safe to call while idle.
func (a *App) StopListening() domain.SessionSnapshot {
	if err := a.requireReady(); err != nil {
		return domain.SessionSnapshot{}
	}
	a.controller.Stop()
	return a.controller.Snapshot()
}

// SwitchLanguage changes the dictation language, restarting the live session
// when one exists.
func (a *App) SwitchLanguage(language string) (domain.SessionSnapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.SessionSnapshot{}, err
	}
	lang, err := parseLanguage(language)
	if err != nil {
		return a.controller.Snapshot(), err
	}
	if err := a.controller.SwitchLanguage(a.ctx, lang); err != nil {
		return a.controller.Snapshot(), err
	}
	return a.controller.Snapshot(), nil
}

// ClearTranscript discards all dictated text.
func (a *App) ClearTranscript() {
	if err := a.requireReady(); err != nil {
		return
	}
	a.controller.Clear()
}

// CopyTranscript writes the full transcript (finalized plus interim) to the
// system clipboard. Best effort: failure is reported as false, never as an
// error.
func (a *App) CopyTranscript() bool {
	if err := a.requireReady(); err != nil {
		return false
	}
	text := a.controller.FullTranscript()
	if text == "" {
		return false
	}
	if err := a.clipboard.SetText(a.ctx, text); err != nil {
		log.Debug().Err(err).Msg("clipboard write failed")
		return false
	}
	return true
}

// GetSnapshot returns the current session state.
func (a *App) GetSnapshot() domain.SessionSnapshot {
	if a.controller == nil {
		return domain.SessionSnapshot{Language: domain.LanguageHinglish}
	}
	return a.controller.Snapshot()
}

// GetTranscript returns the segment log, interim text, and counts.
func (a *App) GetTranscript() domain.Transcript {
	if a.controller == nil {
		return domain.Transcript{Segments: []domain.Segment{}}
	}
	return a.controller.Transcript()
}

// GetLanguages lists the selectable languages for the menu.
func (a *App) GetLanguages() []domain.LanguageInfo {
	return domain.Languages()
}

// IsSupported reports whether the host has a recognition capability.
func (a *App) IsSupported() bool {
	return a.supported
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	return map[string]string{
		"engineEndpoint": a.cfg.Engine.EndpointURL,
		"language":       string(a.cfg.Session.DefaultLanguage),
		"settleDelay":    a.cfg.Session.SettleDelay.String(),
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return errNotInitialized
	}
	return nil
}

func parseLanguage(value string) (domain.Language, error) {
	lang := domain.Language(strings.ToLower(strings.TrimSpace(value)))
	if !lang.Valid() {
		return "", usecase.ErrUnknownLanguage
	}
	return lang, nil
}

// StateChanged emits session state updates to the frontend.
func (a *App) StateChanged(snapshot domain.SessionSnapshot) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventState, snapshot)
}

// InterimChanged emits the live in-progress text.
func (a *App) InterimChanged(text string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventInterim, map[string]string{"text": text})
}

// SegmentAppended emits a newly finalized, classified segment.
func (a *App) SegmentAppended(segment domain.Segment) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSegment, segment)
}

// TranscriptCleared tells the frontend the log was emptied.
func (a *App) TranscriptCleared() {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventCleared)
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodePermission:
		return "Microphone access denied"
	case domain.ErrorCodeEngine:
		return "Could not start speech recognition"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}

type wailsClipboard struct{}

func (c *wailsClipboard) SetText(ctx context.Context, text string) error {
	return runtime.ClipboardSetText(ctx, text)
}
