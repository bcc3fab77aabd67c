package bootstrap

import (
	"testing"

	"lipikar/internal/domain"
)

func TestBuildWithConfiguredEngine(t *testing.T) {
	t.Setenv("LIPIKAR_ENGINE_URL", "wss://stt.local/v1")
	t.Setenv("LIPIKAR_LANGUAGE", "hindi")

	services, err := Build(noopEventSink{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Controller == nil {
		t.Fatalf("expected controller")
	}
	if !services.Supported {
		t.Fatalf("expected supported capability flag")
	}
	if got := services.Controller.Snapshot().Language; got != domain.LanguageHindi {
		t.Fatalf("unexpected default language: %q", got)
	}
}

func TestBuildWithoutEngineIsUnsupported(t *testing.T) {
	t.Setenv("LIPIKAR_ENGINE_URL", "")

	services, err := Build(noopEventSink{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Supported {
		t.Fatalf("expected unsupported capability flag without an endpoint")
	}
}

type noopEventSink struct{}

func (noopEventSink) StateChanged(_ domain.SessionSnapshot)     {}
func (noopEventSink) InterimChanged(_ string)                   {}
func (noopEventSink) SegmentAppended(_ domain.Segment)          {}
func (noopEventSink) TranscriptCleared()                        {}
func (noopEventSink) SessionError(_ domain.ErrorCode, _ string) {}
