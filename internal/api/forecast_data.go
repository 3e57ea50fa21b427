package api

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/lox/flamingo/internal/metrics"
	"github.com/lox/flamingo/internal/models"
	"github.com/lox/flamingo/internal/rating"
)

// evaluateAll rates each location in turn. A location whose forecast can't be
// fetched is logged, counted and reported in failed; the rest carry on.
func (s *Server) evaluateAll(ctx context.Context, locs []models.Location, scorer *rating.Scorer) (results []LocationResult, failed []FailedLocation) {
	for _, loc := range locs {
		result, err := s.evaluateLocation(ctx, loc, scorer)
		if err != nil {
			log.Printf("api: forecast for %s: %v", loc.Name, err)
			metrics.LocationFailures.WithLabelValues(s.metricLabel(loc)).Inc()
			failed = append(failed, FailedLocation{Name: loc.Name, Error: err.Error()})
			continue
		}
		results = append(results, result)
	}
	return results, failed
}

func (s *Server) evaluateLocation(ctx context.Context, loc models.Location, scorer *rating.Scorer) (LocationResult, error) {
	periods, err := s.forecasts.Fetch(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return LocationResult{}, fmt.Errorf("fetch forecast: %w", err)
	}

	result := LocationResult{Location: loc}
	for _, d := range rating.GroupDays(periods) {
		ev := scorer.EvaluateDay(d)
		record(ev)
		result.Days = append(result.Days, newDayView(loc, d, ev))
	}
	return result, nil
}

// rateForecast builds the JSON breakdown: each period rated on its own and
// each calendar day rated as a whole.
func rateForecast(lat, lon float64, periods []models.Period, scorer *rating.Scorer) ForecastResponse {
	resp := ForecastResponse{
		Latitude:  lat,
		Longitude: lon,
		Criteria:  scorer.Criteria(),
		Periods:   make([]PeriodRating, 0, len(periods)),
		Days:      []DayRating{},
	}
	for _, p := range periods {
		resp.Periods = append(resp.Periods, PeriodRating{
			Period: newPeriodJSON(p),
			Rating: scorer.EvaluatePeriod(p),
		})
	}
	for _, d := range rating.GroupDays(periods) {
		ev := scorer.EvaluateDay(d)
		record(ev)
		resp.Days = append(resp.Days, newDayRating(d, ev))
	}
	return resp
}

func record(ev rating.Evaluation) {
	policy := string(ev.Policy)
	metrics.EvaluationsTotal.WithLabelValues(policy, strconv.FormatBool(ev.Evaluable)).Inc()
	if ev.Evaluable {
		metrics.DayScores.WithLabelValues(policy).Observe(ev.Score)
	}
}

// metricLabel keeps custom coordinates out of the label set.
func (s *Server) metricLabel(loc models.Location) string {
	if _, ok := findLocation(s.locations, loc.Name); ok {
		return loc.Name
	}
	return otherLocation
}

// bestDay picks the highest scoring evaluable day across all results, for the
// page's share image.
func bestDay(results []LocationResult) (DayView, bool) {
	var best DayView
	found := false
	for _, r := range results {
		for _, d := range r.Days {
			if !d.Evaluation.Evaluable {
				continue
			}
			if !found || d.Evaluation.Score > best.Evaluation.Score {
				best, found = d, true
			}
		}
	}
	return best, found
}
