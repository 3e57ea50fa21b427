package api

import (
	"context"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/flamingo/internal/badge"
	"github.com/lox/flamingo/internal/models"
)

// Forecaster fetches the forecast periods for a coordinate pair.
type Forecaster interface {
	Fetch(ctx context.Context, lat, lon float64) ([]models.Period, error)
}

type Server struct {
	forecasts Forecaster
	locations []models.Location
	port      string
	tmpl      *template.Template
	badges    *badge.Cache
}

// NewServer creates a server offering the given fixed locations on its form.
func NewServer(forecasts Forecaster, locations []models.Location, port string) *Server {
	return &Server{
		forecasts: forecasts,
		locations: locations,
		port:      port,
		tmpl:      newTemplates(),
		badges:    badge.NewCache(time.Hour, 256),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/badge.png", s.handleBadge)
	mux.HandleFunc("/api/forecast", s.handleAPIForecast)
	mux.HandleFunc("/api/locations", s.handleAPILocations)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
