package api

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/lox/flamingo/internal/rating"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.renderPage(w, http.StatusOK, s.newPageData(s.defaultForm()))
	case http.MethodPost:
		s.handleSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		page := s.newPageData(s.defaultForm())
		page.Error = "Could not read the form"
		s.renderPage(w, http.StatusBadRequest, page)
		return
	}

	page := s.newPageData(s.submittedForm(r.PostForm))

	criteria, err := parseCriteria(r.PostForm)
	if err != nil {
		s.renderInputError(w, page, err)
		return
	}
	locs, err := parseLocations(r.PostForm, s.locations)
	if err != nil {
		s.renderInputError(w, page, err)
		return
	}

	log.Printf("api: rating %d location(s) with %s policy", len(locs), criteria.Policy)
	scorer := rating.NewScorer(criteria)
	page.Results, page.Failed = s.evaluateAll(r.Context(), locs, scorer)
	page.Submitted = true

	if best, ok := bestDay(page.Results); ok {
		page.OGImage = absoluteURL(r, best.BadgeURL)
	}

	s.renderPage(w, http.StatusOK, page)
}

func (s *Server) renderInputError(w http.ResponseWriter, page PageData, err error) {
	var inErr *inputError
	if !errors.As(err, &inErr) {
		log.Printf("api: unexpected form error: %v", err)
	}
	page.Error = err.Error()
	s.renderPage(w, http.StatusBadRequest, page)
}

// renderPage executes the template into a buffer first so a template failure
// doesn't leave a half-written page behind a 200.
func (s *Server) renderPage(w http.ResponseWriter, status int, page PageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		log.Printf("api: template error: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("api: write page: %v", err)
	}
}

func absoluteURL(r *http.Request, path string) string {
	if path == "" {
		return ""
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
