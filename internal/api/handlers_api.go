package api

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/lox/flamingo/internal/badge"
	"github.com/lox/flamingo/internal/metrics"
	"github.com/lox/flamingo/internal/rating"
)

const maxBadgeLabel = 100

func (s *Server) handleAPIForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, lon, err := parseCoordinates(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	criteria, err := parseCriteria(q)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	periods, err := s.forecasts.Fetch(r.Context(), lat, lon)
	if err != nil {
		log.Printf("api: forecast for %.4f,%.4f: %v", lat, lon, err)
		metrics.LocationFailures.WithLabelValues(otherLocation).Inc()
		writeJSONError(w, http.StatusBadGateway, "forecast unavailable: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rateForecast(lat, lon, periods, rating.NewScorer(criteria)))
}

// LocationJSON is a fixed location as listed by /api/locations.
type LocationJSON struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *Server) handleAPILocations(w http.ResponseWriter, r *http.Request) {
	out := make([]LocationJSON, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, LocationJSON{Name: loc.Name, Latitude: loc.Latitude, Longitude: loc.Longitude})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleBadge renders a share image for a flamingo score.
// Supports ?condition=rain and ?night=1 to pick the card palette.
func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	score, err := strconv.ParseFloat(q.Get("score"), 64)
	if err != nil || math.IsNaN(score) || score < 0 || score > rating.MaxScore {
		http.Error(w, "score must be a number between 0 and 5", http.StatusBadRequest)
		return
	}

	label := []rune(q.Get("label"))
	if len(label) > maxBadgeLabel {
		label = label[:maxBadgeLabel]
	}

	data := badge.Data{
		Score:     math.Round(score*2) / 2,
		Label:     string(label),
		Condition: rating.Condition(q.Get("condition")),
		Daytime:   q.Get("night") == "",
	}

	key := badge.Key(data)
	if png, ok := s.badges.Get(key); ok {
		serveBadge(w, png)
		return
	}

	png, err := badge.Render(data)
	if err != nil {
		log.Printf("api: render badge: %v", err)
		http.Error(w, "badge rendering failed", http.StatusInternalServerError)
		return
	}
	s.badges.Set(key, png)
	serveBadge(w, png)
}

func serveBadge(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		log.Printf("api: write badge: %v", err)
	}
}
