package form

type EventKind string

const (
	EventValidation EventKind = "validation"
	EventPrompt     EventKind = "prompt"
	EventBusy       EventKind = "busy"
	EventAnswer     EventKind = "answer"
	EventError      EventKind = "error"
	EventIdle       EventKind = "idle"
)

// Event is one step of a submission, pushed to live clients as it happens.
type Event struct {
	Kind    EventKind    `json:"kind"`
	QueryID string       `json:"query_id,omitempty"`
	Text    string       `json:"text,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}
