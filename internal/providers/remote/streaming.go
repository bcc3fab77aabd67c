// Package remote implements the recognition engine against a streaming
// speech-recognition websocket service. The service owns audio capture; the
// client only receives hypothesis, error, and end frames.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"lipikar/internal/domain"
	"lipikar/internal/ports"
)

var ErrNotConfigured = errors.New("recognizer endpoint is not configured")

// Config controls the recognizer connection.
type Config struct {
	EndpointURL string
	APIKey      string
}

// Engine creates one websocket session per activation.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Supported reports whether a recognizer endpoint is configured at all.
func (e *Engine) Supported() bool {
	return strings.TrimSpace(e.cfg.EndpointURL) != ""
}

func (e *Engine) Start(ctx context.Context, cfg ports.EngineConfig) (ports.EngineSession, error) {
	if !e.Supported() {
		return nil, ErrNotConfigured
	}

	sessionURL, err := buildSessionURL(e.cfg.EndpointURL, cfg)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	if key := strings.TrimSpace(e.cfg.APIKey); key != "" {
		headers.Set("Authorization", "Bearer "+key)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, sessionURL, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to recognizer: %w", err)
	}

	session := &engineSession{
		conn:   conn,
		events: make(chan domain.EngineEvent, 64),
	}
	go session.readLoop()
	go func() {
		<-ctx.Done()
		_ = session.Stop()
	}()

	return session, nil
}

type engineSession struct {
	conn   *websocket.Conn
	events chan domain.EngineEvent

	stopOnce sync.Once
}

func (s *engineSession) Events() <-chan domain.EngineEvent {
	return s.events
}

// Stop halts the session. The read loop unblocks on the closed connection
// and drains out; the caller is expected to have detached its handlers
// already.
func (s *engineSession) Stop() error {
	s.stopOnce.Do(func() {
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stop")
		_ = s.conn.WriteMessage(websocket.CloseMessage, message)
		_ = s.conn.Close()
	})
	return nil
}

// recognizerFrame is one message from the recognizer service.
type recognizerFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`

	Results []struct {
		Transcript string `json:"transcript"`
		IsFinal    bool   `json:"is_final"`
	} `json:"results"`
}

func (s *engineSession) readLoop() {
	defer func() {
		// Whatever ends the socket, the session ended exactly once.
		s.events <- domain.EngineEvent{Kind: domain.EngineEventEnded}
		close(s.events)
		_ = s.conn.Close()
	}()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !isExpectedClose(err) {
				log.Debug().Err(err).Msg("recognizer socket read failed")
				s.events <- domain.EngineEvent{
					Kind: domain.EngineEventError,
					Err:  domain.EngineError{Kind: domain.EngineErrOther, Detail: err.Error()},
				}
			}
			return
		}

		var frame recognizerFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			log.Debug().Err(err).Msg("unparseable recognizer frame dropped")
			continue
		}

		switch frame.Type {
		case "result":
			s.events <- domain.EngineEvent{
				Kind:       domain.EngineEventHypothesis,
				Hypothesis: hypothesisFromFrame(frame),
			}
		case "error":
			s.events <- domain.EngineEvent{
				Kind: domain.EngineEventError,
				Err:  classifyErrorFrame(frame),
			}
		case "end":
			return
		default:
			log.Debug().Str("type", frame.Type).Msg("unknown recognizer frame type dropped")
		}
	}
}

// hypothesisFromFrame splits one notification into its finalized and
// provisional pieces, preserving the order within the frame.
func hypothesisFromFrame(frame recognizerFrame) domain.Hypothesis {
	var hypothesis domain.Hypothesis
	for _, result := range frame.Results {
		if result.IsFinal {
			hypothesis.Finals = append(hypothesis.Finals, result.Transcript)
		} else {
			hypothesis.Interims = append(hypothesis.Interims, result.Transcript)
		}
	}
	return hypothesis
}

func classifyErrorFrame(frame recognizerFrame) domain.EngineError {
	detail := strings.TrimSpace(frame.Message)
	if detail == "" {
		detail = frame.Code
	}
	return domain.EngineError{Kind: classifyErrorCode(frame.Code), Detail: detail}
}

// classifyErrorCode maps recognizer error codes onto the controller's
// failure taxonomy. Codes follow the Web Speech API error names.
func classifyErrorCode(code string) domain.EngineErrorKind {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "not-allowed", "permission-denied", "service-not-allowed":
		return domain.EngineErrPermissionDenied
	case "no-speech":
		return domain.EngineErrNoSpeechTimeout
	case "aborted":
		return domain.EngineErrAborted
	default:
		return domain.EngineErrOther
	}
}

func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) || errors.Is(err, net.ErrClosed)
}

func buildSessionURL(endpoint string, cfg ports.EngineConfig) (string, error) {
	base := strings.TrimSpace(endpoint)
	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	base = strings.TrimRight(base, "/")

	sessionURL, err := url.Parse(base + "/recognize")
	if err != nil {
		return "", fmt.Errorf("invalid recognizer endpoint: %w", err)
	}

	query := sessionURL.Query()
	query.Set("language", cfg.Locale)
	query.Set("continuous", fmt.Sprintf("%t", cfg.Continuous))
	query.Set("interim_results", fmt.Sprintf("%t", cfg.InterimResults))
	if cfg.MaxAlternatives > 0 {
		query.Set("max_alternatives", fmt.Sprintf("%d", cfg.MaxAlternatives))
	}
	sessionURL.RawQuery = query.Encode()
	return sessionURL.String(), nil
}
