// Package form is the expert form as an explicit state machine. Every
// interaction hands in a Snapshot of the widget values and gets back the
// complete View to render; nothing is kept between interactions.
package form

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flitsinc/go-experts/internal/idgen"
	"github.com/flitsinc/go-experts/internal/prompt"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle      State = "idle"
	StateSubmitted State = "submitted"
)

const (
	ValidationMessage = "Please enter some text before submitting."
	BusyMessage       = "Asking the model…"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeInvalid = "invalid"
)

// Snapshot is the widget state at the moment of an interaction.
type Snapshot struct {
	Role       string `json:"role"`
	Input      string `json:"input"`
	ShowPrompt bool   `json:"show_prompt"`
	Submitted  bool   `json:"submitted"`
}

type RoleOption struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type View struct {
	State           State        `json:"state"`
	QueryID         string       `json:"query_id,omitempty"`
	Roles           []RoleOption `json:"roles"`
	Role            string       `json:"role"`
	Input           string       `json:"input"`
	ShowPrompt      bool         `json:"show_prompt"`
	Warning         string       `json:"warning,omitempty"`
	ValidationError string       `json:"validation_error,omitempty"`
	SystemPrompt    string       `json:"system_prompt,omitempty"`
	Answer          string       `json:"answer,omitempty"`
	Error           *ErrorDetail `json:"error,omitempty"`
}

// Asker is the remote completion call.
type Asker interface {
	Ask(ctx context.Context, input, roleLabel string) (string, error)
}

// Recorder receives one observation per submit.
type Recorder interface {
	QueryFinished(role, outcome string, elapsed time.Duration)
}

type Form struct {
	Asker Asker
	// Warning is shown on every view, e.g. when the API key is missing.
	Warning string
	Logger  *zap.Logger
	Metrics Recorder
}

func (f *Form) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

// Evaluate derives the view for snap. observe, if not nil, receives the
// events of a submission in order: prompt (debug only), busy, answer or
// error, idle. A rejected submission produces a single validation event.
func (f *Form) Evaluate(ctx context.Context, snap Snapshot, observe func(Event)) View {
	if observe == nil {
		observe = func(Event) {}
	}
	role := prompt.ResolveRole(snap.Role)
	view := View{
		State:      StateIdle,
		Roles:      roleOptions(role.Label),
		Role:       role.Label,
		Input:      snap.Input,
		ShowPrompt: snap.ShowPrompt,
		Warning:    f.Warning,
	}
	if !snap.Submitted {
		return view
	}

	if strings.TrimSpace(snap.Input) == "" {
		view.ValidationError = ValidationMessage
		observe(Event{Kind: EventValidation, Text: ValidationMessage})
		f.record(role.Label, OutcomeInvalid, 0)
		return view
	}

	view.State = StateSubmitted
	view.QueryID = idgen.New()
	if snap.ShowPrompt {
		view.SystemPrompt = role.SystemPrompt
		observe(Event{Kind: EventPrompt, QueryID: view.QueryID, Text: role.SystemPrompt})
	}

	observe(Event{Kind: EventBusy, QueryID: view.QueryID, Text: BusyMessage})
	start := time.Now()
	answer, err := f.ask(ctx, snap.Input, snap.Role)
	elapsed := time.Since(start)

	log := f.logger().With(
		zap.String("query_id", view.QueryID),
		zap.String("role", role.Label),
		zap.Duration("elapsed", elapsed),
	)
	if err != nil {
		view.State = StateIdle
		view.Error = &ErrorDetail{Type: fmt.Sprintf("%T", err), Message: err.Error()}
		observe(Event{Kind: EventError, QueryID: view.QueryID, Text: err.Error(), Error: view.Error})
		log.Warn("query failed", zap.Error(err))
		f.record(role.Label, OutcomeError, elapsed)
	} else {
		view.Answer = answer
		observe(Event{Kind: EventAnswer, QueryID: view.QueryID, Text: answer})
		log.Info("query answered", zap.Int("answer_bytes", len(answer)))
		f.record(role.Label, OutcomeSuccess, elapsed)
	}
	observe(Event{Kind: EventIdle, QueryID: view.QueryID})
	return view
}

// ask calls the Asker and turns a panic into an error so the page stays up.
func (f *Form) ask(ctx context.Context, input, roleLabel string) (answer string, err error) {
	if f.Asker == nil {
		return "", fmt.Errorf("no llm client configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("llm call panicked: %v", r)
		}
	}()
	return f.Asker.Ask(ctx, input, roleLabel)
}

func (f *Form) record(role, outcome string, elapsed time.Duration) {
	if f.Metrics != nil {
		f.Metrics.QueryFinished(role, outcome, elapsed)
	}
}

func roleOptions(selected string) []RoleOption {
	labels := prompt.Labels()
	out := make([]RoleOption, 0, len(labels))
	for _, label := range labels {
		out = append(out, RoleOption{Label: label, Selected: label == selected})
	}
	return out
}
