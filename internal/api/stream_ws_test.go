package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/flitsinc/go-experts/internal/form"
	"github.com/flitsinc/go-experts/internal/prompt"
	"github.com/flitsinc/go-experts/internal/testutil"
)

type fakeWSWriter struct {
	messages [][]byte
	failAt   int
}

func (f *fakeWSWriter) Write(_ context.Context, _ websocket.MessageType, data []byte) error {
	if f.failAt > 0 && len(f.messages)+1 == f.failAt {
		return errors.New("socket closed")
	}
	f.messages = append(f.messages, data)
	return nil
}

func messageKinds(t *testing.T, messages [][]byte) []string {
	t.Helper()
	var kinds []string
	for _, raw := range messages {
		var msg struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("decode ws payload: %v", err)
		}
		kinds = append(kinds, msg.Kind)
	}
	return kinds
}

func TestStreamSubmissionWriter(t *testing.T) {
	server := newTestServer(&testutil.FakeModel{Reply: "answer text"})
	writer := &fakeWSWriter{}
	snap := form.Snapshot{Role: prompt.CareerLabel, Input: "hi", ShowPrompt: true, Submitted: true}

	if err := streamSubmission(context.Background(), server.Form, snap, writer); err != nil {
		t.Fatalf("stream: %v", err)
	}
	got := strings.Join(messageKinds(t, writer.messages), ",")
	if got != "prompt,busy,answer,idle,view" {
		t.Fatalf("unexpected message order: %s", got)
	}

	var final viewMessage
	if err := json.Unmarshal(writer.messages[len(writer.messages)-1], &final); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if final.View.Answer != "answer text" || final.View.SystemPrompt != prompt.Resolve(prompt.CareerLabel) {
		t.Fatalf("unexpected final view: %+v", final.View)
	}
}

func TestStreamSubmissionValidation(t *testing.T) {
	model := &testutil.FakeModel{Reply: "never"}
	server := newTestServer(model)
	writer := &fakeWSWriter{}
	if err := streamSubmission(context.Background(), server.Form, form.Snapshot{Submitted: true}, writer); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if got := strings.Join(messageKinds(t, writer.messages), ","); got != "validation,view" {
		t.Fatalf("unexpected message order: %s", got)
	}
	if model.CallCount() != 0 {
		t.Fatalf("expected no calls")
	}
}

func TestStreamSubmissionWriteError(t *testing.T) {
	server := newTestServer(&testutil.FakeModel{Reply: "ok"})
	writer := &fakeWSWriter{failAt: 2}
	err := streamSubmission(context.Background(), server.Form, form.Snapshot{Input: "hi", Submitted: true}, writer)
	if err == nil {
		t.Fatalf("expected write error")
	}
	if len(writer.messages) != 1 {
		t.Fatalf("writes should stop after the first failure, got %d", len(writer.messages))
	}
}

func TestHandleWSRoundTrip(t *testing.T) {
	server := newTestServer(&testutil.FakeModel{Reply: "over the wire"})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/api/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	snapshot, _ := json.Marshal(map[string]any{"role": prompt.InsuranceLabel, "input": "I am 30"})
	if err := conn.Write(ctx, websocket.MessageText, snapshot); err != nil {
		t.Fatalf("write: %v", err)
	}

	var kinds []string
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg viewMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		kinds = append(kinds, msg.Kind)
		if msg.Kind == "view" {
			if msg.View.Answer != "over the wire" {
				t.Fatalf("unexpected answer %q", msg.View.Answer)
			}
			break
		}
	}
	if got := strings.Join(kinds, ","); got != "busy,answer,idle,view" {
		t.Fatalf("unexpected message order: %s", got)
	}
}

func dialWithOrigin(ctx context.Context, url, origin string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{origin}},
	})
	return conn, err
}

func TestHandleWSRejectsForeignOrigin(t *testing.T) {
	model := &testutil.FakeModel{Reply: "never"}
	ts := httptest.NewServer(newTestServer(model).Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := dialWithOrigin(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/api/ws", "https://evil.example")
	if err == nil {
		conn.Close(websocket.StatusNormalClosure, "")
		t.Fatalf("expected foreign origin to be rejected")
	}
	if model.CallCount() != 0 {
		t.Fatalf("expected no calls")
	}
}

func TestHandleWSAllowsConfiguredOrigin(t *testing.T) {
	server := newTestServer(&testutil.FakeModel{Reply: "ok"})
	server.OriginPatterns = []string{"app.example"}
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := dialWithOrigin(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/api/ws", "https://app.example")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close(websocket.StatusNormalClosure, "done")
}
