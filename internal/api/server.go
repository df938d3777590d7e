package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/flitsinc/go-experts/internal/ai"
	"github.com/flitsinc/go-experts/internal/form"
	"github.com/flitsinc/go-experts/internal/prompt"
	"go.uber.org/zap"
)

type Server struct {
	Form      *form.Form
	Client    *ai.Client
	Logger    *zap.Logger
	StartedAt time.Time
	Info      DiagnosticsInfo

	// OriginPatterns lists extra Origin hosts allowed to open /api/ws.
	OriginPatterns []string
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)
	mux.HandleFunc("/api/roles", s.handleRoles)
	mux.HandleFunc("/api/prompt", s.handlePrompt)
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/api/ws", s.handleWS)

	return mux
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "time": time.Now().UTC()})
}

type roleResponse struct {
	Label        string `json:"label"`
	Default      bool   `json:"default"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

func (s *Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	withPrompts := r.URL.Query().Get("prompts") == "1"
	def := prompt.Default().Label
	all := prompt.All()
	out := make([]roleResponse, 0, len(all))
	for _, role := range all {
		item := roleResponse{Label: role.Label, Default: role.Label == def}
		if withPrompts {
			item.SystemPrompt = role.SystemPrompt
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

type askRequest struct {
	Role       string `json:"role"`
	Input      string `json:"input"`
	ShowPrompt bool   `json:"show_prompt"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if s.Form == nil {
		writeError(w, http.StatusInternalServerError, errors.New("form unavailable"))
		return
	}
	var req askRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	view := s.Form.Evaluate(r.Context(), form.Snapshot{
		Role:       req.Role,
		Input:      req.Input,
		ShowPrompt: req.ShowPrompt,
		Submitted:  true,
	}, nil)
	if view.QueryID != "" {
		w.Header().Set("X-Query-ID", view.QueryID)
	}
	writeJSON(w, viewStatus(view), view)
}

func viewStatus(view form.View) int {
	switch {
	case view.ValidationError != "":
		return http.StatusBadRequest
	case view.Error != nil:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func decodeJSON(body io.Reader, dest any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
}
