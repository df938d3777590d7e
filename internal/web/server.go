package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/flitsinc/go-experts/internal/form"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

const Title = "Expert Advisor"

// Server renders the form page. GET shows the idle form; POST is a submit.
type Server struct {
	Form   *form.Form
	Logger *zap.Logger
}

type pageData struct {
	form.View
	Title       string
	BusyMessage string
	Answered    bool
	AnswerHTML  template.HTML
}

func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		var snap form.Snapshot
		switch r.Method {
		case http.MethodGet:
		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				http.Error(w, "invalid form", http.StatusBadRequest)
				return
			}
			snap = snapshotFromForm(r)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		view := s.Form.Evaluate(r.Context(), snap, nil)
		s.render(w, view)
	})
}

func (s *Server) render(w http.ResponseWriter, view form.View) {
	data := pageData{
		View:        view,
		Title:       Title,
		BusyMessage: form.BusyMessage,
	}
	// A successful call always gets the answer section, even for an empty reply.
	if view.State == form.StateSubmitted && view.Error == nil {
		data.Answered = true
		data.AnswerHTML = RenderMarkdown(view.Answer)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		if s.Logger != nil {
			s.Logger.Error("render page", zap.Error(err))
		}
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	if view.QueryID != "" {
		w.Header().Set("X-Query-ID", view.QueryID)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func snapshotFromForm(r *http.Request) form.Snapshot {
	show := r.PostForm.Get("show_prompt")
	return form.Snapshot{
		Role:       r.PostForm.Get("role"),
		Input:      r.PostForm.Get("input"),
		ShowPrompt: show == "on" || show == "true" || show == "1",
		Submitted:  true,
	}
}
