package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/lox/flamingo/internal/models"
	"github.com/lox/flamingo/internal/rating"
)

const (
	otherLocation = "other"
	// anySky in the conditions field lifts the sky restriction.
	anySky = "any"
)

// inputError is malformed user input, reported back with a 400.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func badInput(format string, args ...any) error {
	return &inputError{msg: fmt.Sprintf(format, args...)}
}

// parseCriteria reads thresholds, weights, sky conditions and policy from
// form or query values. Missing fields keep their defaults; no checked
// conditions means the default set.
func parseCriteria(v url.Values) (rating.Criteria, error) {
	c := rating.DefaultCriteria()

	fields := []struct {
		key   string
		label string
		dst   *float64
	}{
		{"min_day_temp", "Minimum day temperature", &c.MinDayTemp},
		{"min_night_temp", "Minimum night temperature", &c.MinNightTemp},
		{"max_wind", "Maximum wind speed", &c.MaxWind},
		{"weight_temperature", "Temperature weight", &c.Weights.Temperature},
		{"weight_wind", "Wind weight", &c.Weights.Wind},
		{"weight_conditions", "Conditions weight", &c.Weights.Conditions},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(v.Get(f.key))
		if raw == "" {
			continue
		}
		n, err := parseNumber(raw)
		if err != nil {
			return c, badInput("%s must be a number, got %q", f.label, raw)
		}
		*f.dst = n
	}

	if conds := v["conditions"]; len(conds) > 0 {
		var allowed []string
		for _, cond := range conds {
			cond = strings.TrimSpace(cond)
			if strings.EqualFold(cond, anySky) {
				allowed = nil
				break
			}
			if cond != "" {
				allowed = append(allowed, cond)
			}
		}
		c.AllowedConditions = allowed
	}

	policy, err := rating.ParsePolicy(v.Get("policy"))
	if err != nil {
		return c, badInput("Unknown scoring policy %q", v.Get("policy"))
	}
	c.Policy = policy

	if err := c.Validate(); err != nil {
		return c, badInput("Invalid criteria: %v", err)
	}
	return c, nil
}

func parseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return n, nil
}

// parseCoordinates validates a latitude/longitude pair.
func parseCoordinates(latRaw, lonRaw string) (float64, float64, error) {
	latRaw, lonRaw = strings.TrimSpace(latRaw), strings.TrimSpace(lonRaw)
	if latRaw == "" || lonRaw == "" {
		return 0, 0, badInput("Latitude and longitude are both required")
	}
	lat, err := parseNumber(latRaw)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, badInput("Latitude must be a number between -90 and 90, got %q", latRaw)
	}
	lon, err := parseNumber(lonRaw)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, badInput("Longitude must be a number between -180 and 180, got %q", lonRaw)
	}
	return lat, lon, nil
}

// parseLocations resolves the selected location names against the fixed list,
// plus "other" with its custom coordinates. Duplicates are dropped.
func parseLocations(v url.Values, fixed []models.Location) ([]models.Location, error) {
	names := v["location"]
	if len(names) == 0 {
		return nil, badInput("Please select at least one location")
	}

	var out []models.Location
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		if strings.EqualFold(name, otherLocation) {
			lat, lon, err := parseCoordinates(v.Get("custom_lat"), v.Get("custom_lon"))
			if err != nil {
				return nil, err
			}
			out = append(out, customLocation(lat, lon))
			continue
		}

		loc, ok := findLocation(fixed, name)
		if !ok {
			return nil, badInput("Unknown location %q", name)
		}
		out = append(out, loc)
	}
	return out, nil
}

func customLocation(lat, lon float64) models.Location {
	return models.Location{
		Name:      fmt.Sprintf("Custom (%.4f, %.4f)", lat, lon),
		Latitude:  lat,
		Longitude: lon,
	}
}

func findLocation(fixed []models.Location, name string) (models.Location, bool) {
	for _, loc := range fixed {
		if strings.EqualFold(loc.Name, name) {
			return loc, true
		}
	}
	return models.Location{}, false
}
