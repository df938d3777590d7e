package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/flitsinc/go-experts/internal/form"
	"go.uber.org/zap"
)

type wsWriter interface {
	Write(ctx context.Context, msgType websocket.MessageType, data []byte) error
}

// viewMessage closes every submission on the socket.
type viewMessage struct {
	Kind string    `json:"kind"`
	View form.View `json:"view"`
}

// handleWS accepts one snapshot per text message and pushes each form event
// as it happens, followed by the final view. Submissions on one socket run
// one at a time.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.Form == nil {
		writeError(w, http.StatusInternalServerError, errors.New("form unavailable"))
		return
	}

	// Same-host origins are accepted; anything else must match OriginPatterns.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.OriginPatterns,
	})
	if err != nil {
		s.logger().Debug("websocket rejected", zap.String("origin", r.Header.Get("Origin")), zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	ctx := r.Context()
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				s.logger().Debug("websocket read ended", zap.Error(err))
			}
			return
		}
		if msgType != websocket.MessageText {
			_ = conn.Close(websocket.StatusUnsupportedData, "text messages only")
			return
		}
		var req askRequest
		if err := json.Unmarshal(data, &req); err != nil {
			_ = conn.Close(websocket.StatusInvalidFramePayloadData, "invalid snapshot")
			return
		}
		snap := form.Snapshot{Role: req.Role, Input: req.Input, ShowPrompt: req.ShowPrompt, Submitted: true}
		if err := streamSubmission(ctx, s.Form, snap, conn); err != nil {
			_ = conn.Close(websocket.StatusInternalError, "stream error")
			return
		}
	}
}

func streamSubmission(ctx context.Context, f *form.Form, snap form.Snapshot, writer wsWriter) error {
	var writeErr error
	send := func(payload any) {
		if writeErr != nil {
			return
		}
		data, err := json.Marshal(payload)
		if err != nil {
			writeErr = err
			return
		}
		writeErr = writer.Write(ctx, websocket.MessageText, data)
	}

	view := f.Evaluate(ctx, snap, func(evt form.Event) {
		send(evt)
	})
	send(viewMessage{Kind: "view", View: view})
	return writeErr
}
