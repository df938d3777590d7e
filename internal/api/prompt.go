package api

import (
	"net/http"

	"github.com/flitsinc/go-experts/internal/prompt"
)

// handlePrompt shows the system prompt a role label resolves to, including
// the fallback for unknown labels.
func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	requested := r.URL.Query().Get("role")
	role := prompt.ResolveRole(requested)
	writeJSON(w, http.StatusOK, map[string]any{
		"requested":     requested,
		"role":          role.Label,
		"fallback":      requested != role.Label,
		"system_prompt": role.SystemPrompt,
	})
}
