package domain

// Classification labels one finalized transcript chunk by detected script.
type Classification struct {
	Label      string `json:"label"`
	ColorToken string `json:"colorToken"`
	Emoji      string `json:"emoji"`
}

// Segment is one finalized transcript chunk. Immutable once created;
// insertion order reconstructs the transcript.
type Segment struct {
	ID             string         `json:"id"`
	Text           string         `json:"text"`
	Classification Classification `json:"classification"`
}

// SessionSnapshot is the externally observable controller state.
// LastClassification is non-nil only while listening with at least one
// segment finalized since the last start or language switch.
type SessionSnapshot struct {
	Listening          bool            `json:"listening"`
	Language           Language        `json:"language"`
	LastClassification *Classification `json:"lastClassification,omitempty"`
}

// Transcript is the store contents handed to the frontend in one read.
type Transcript struct {
	Segments  []Segment `json:"segments"`
	Interim   string    `json:"interim"`
	WordCount int       `json:"wordCount"`
	CharCount int       `json:"charCount"`
}

// EngineErrorKind classifies failures reported by the recognition engine.
type EngineErrorKind string

const (
	EngineErrPermissionDenied EngineErrorKind = "permission_denied"
	EngineErrNoSpeechTimeout  EngineErrorKind = "no_speech_timeout"
	EngineErrAborted          EngineErrorKind = "aborted"
	EngineErrOther            EngineErrorKind = "other"
)

// EngineError is a classified engine failure with the raw detail preserved.
type EngineError struct {
	Kind   EngineErrorKind
	Detail string
}

// EngineEventKind discriminates the events an engine session pushes.
type EngineEventKind string

const (
	EngineEventHypothesis EngineEventKind = "hypothesis"
	EngineEventError      EngineEventKind = "error"
	EngineEventEnded      EngineEventKind = "ended"
)

// Hypothesis is one raw recognition notification: the finalized and the
// still-provisional pieces it carried, in notification order.
type Hypothesis struct {
	Finals   []string
	Interims []string
}

// EngineEvent is one asynchronous notification from an engine session.
type EngineEvent struct {
	Kind       EngineEventKind
	Hypothesis Hypothesis
	Err        EngineError
}

// ErrorCode identifies backend errors surfaced to the UI.
type ErrorCode string

const (
	ErrorCodeStartup    ErrorCode = "startup"
	ErrorCodePermission ErrorCode = "permission"
	ErrorCodeEngine     ErrorCode = "engine"
)
