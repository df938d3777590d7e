package testutil

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

type ModelCall struct {
	Messages []llms.MessageContent
	Options  llms.CallOptions
}

// FakeModel is an llms.Model that records every call and answers with Reply
// or fails with Err.
type FakeModel struct {
	Reply string
	Err   error
	// Before runs at the start of each call, before the reply is produced.
	Before func()

	mu    sync.Mutex
	calls []ModelCall
}

func (f *FakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	f.mu.Lock()
	f.calls = append(f.calls, ModelCall{Messages: messages, Options: opts})
	before := f.Before
	f.mu.Unlock()

	if before != nil {
		before()
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.Reply}},
	}, nil
}

func (f *FakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func (f *FakeModel) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *FakeModel) Calls() []ModelCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ModelCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// MessageText concatenates the text parts of a message.
func MessageText(msg llms.MessageContent) string {
	var out string
	for _, part := range msg.Parts {
		if text, ok := part.(llms.TextContent); ok {
			out += text.Text
		}
	}
	return out
}
