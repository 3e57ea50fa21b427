// Package nws fetches multi-day forecasts from the US National Weather Service
// (api.weather.gov). A forecast is a two-step lookup: the points endpoint maps
// coordinates to a forecast office grid and returns the URL of its forecast
// document, which holds the day/night periods.
package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/lox/flamingo/internal/htmlutil"
	"github.com/lox/flamingo/internal/httputil"
	"github.com/lox/flamingo/internal/metrics"
	"github.com/lox/flamingo/internal/models"
)

const (
	DefaultBaseURL = "https://api.weather.gov"

	// MaxPeriods is seven day/night pairs.
	MaxPeriods = 14

	maxErrorBody = 512
)

var (
	ErrNoForecastURL = errors.New("points response has no forecast URL")
	ErrNoPeriods     = errors.New("forecast has no periods")
)

// StatusError is returned when api.weather.gov answers with a non-200 status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	// Contact is the email address api.weather.gov asks clients to put in
	// their User-Agent.
	Contact string
	// RateLimit is the maximum requests per second; zero disables limiting.
	RateLimit float64
	Burst     int
}

// Client fetches forecasts for coordinates.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// UserAgent builds the identifying header value api.weather.gov requires.
func UserAgent(contact string) string {
	return fmt.Sprintf("FlamingoForecast/1.0 (%s)", contact)
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL: baseURL,
		httpClient: httputil.NewClientWithHeaders(map[string]string{
			"User-Agent": UserAgent(cfg.Contact),
			"Accept":     "application/geo+json",
		}),
		limiter: rate.NewLimiter(limit, burst),
	}
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []periodJSON `json:"periods"`
	} `json:"properties"`
}

type periodJSON struct {
	Number                     int      `json:"number"`
	Name                       string   `json:"name"`
	StartTime                  string   `json:"startTime"`
	EndTime                    string   `json:"endTime"`
	IsDaytime                  bool     `json:"isDaytime"`
	Temperature                quantity `json:"temperature"`
	TemperatureUnit            string   `json:"temperatureUnit"`
	WindSpeed                  string   `json:"windSpeed"`
	WindDirection              string   `json:"windDirection"`
	ShortForecast              string   `json:"shortForecast"`
	DetailedForecast           string   `json:"detailedForecast"`
	CloudCover                 quantity `json:"cloudCover"`
	ProbabilityOfPrecipitation quantity `json:"probabilityOfPrecipitation"`
}

// Fetch resolves lat/lon to a forecast office and returns up to MaxPeriods
// forecast periods in upstream order.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) ([]models.Period, error) {
	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon)

	var points pointsResponse
	if err := c.getJSON(ctx, "points", pointsURL, &points); err != nil {
		return nil, err
	}
	if points.Properties.Forecast == "" {
		return nil, ErrNoForecastURL
	}

	var fc forecastResponse
	if err := c.getJSON(ctx, "forecast", points.Properties.Forecast, &fc); err != nil {
		return nil, err
	}
	if len(fc.Properties.Periods) == 0 {
		return nil, ErrNoPeriods
	}

	raw := fc.Properties.Periods
	if len(raw) > MaxPeriods {
		raw = raw[:MaxPeriods]
	}

	periods := make([]models.Period, 0, len(raw))
	for _, p := range raw {
		period := p.toModel()
		scrub(&period)
		periods = append(periods, period)
	}
	return periods, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, url string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limit wait: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", endpoint, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.NWSAPILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.NWSAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.NWSAPICallsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s: decode: %w", endpoint, err)
	}
	return nil
}

func (p periodJSON) toModel() models.Period {
	period := models.Period{
		Number:              p.Number,
		Name:                p.Name,
		IsDaytime:           p.IsDaytime,
		Temperature:         p.Temperature.Value,
		TemperatureUnit:     p.TemperatureUnit,
		WindSpeed:           p.WindSpeed,
		WindDirection:       p.WindDirection,
		ShortForecast:       htmlutil.CleanForecastText(p.ShortForecast),
		DetailedForecast:    htmlutil.CleanForecastText(p.DetailedForecast),
		CloudCover:          p.CloudCover.Value,
		PrecipitationChance: p.ProbabilityOfPrecipitation.Value,
	}

	if p.StartTime != "" {
		t, err := time.Parse(time.RFC3339, p.StartTime)
		if err != nil {
			log.Printf("nws: period %d (%s): parse startTime %q: %v", p.Number, p.Name, p.StartTime, err)
		} else {
			period.StartTime = t
		}
	}
	if p.EndTime != "" {
		if t, err := time.Parse(time.RFC3339, p.EndTime); err == nil {
			period.EndTime = t
		}
	}
	return period
}

// quantity accepts the shapes NWS uses for numeric fields: a bare number, null,
// or a {"unitCode": ..., "value": ...} object. Anything else decodes as absent
// so that one bad period doesn't fail the whole document.
type quantity struct {
	Value *float64
}

func (q *quantity) UnmarshalJSON(b []byte) error {
	q.Value = nil
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	switch b[0] {
	case '{':
		var obj struct {
			Value *float64 `json:"value"`
		}
		if err := json.Unmarshal(b, &obj); err == nil {
			q.Value = obj.Value
		}
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				q.Value = &f
			}
		}
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err == nil {
			q.Value = &f
		}
	}
	return nil
}
