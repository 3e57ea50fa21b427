package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func periodsJSON(n int) []map[string]any {
	periods := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		day := 1 + i/2
		start := fmt.Sprintf("2026-06-%02dT06:00:00-04:00", day)
		if i%2 == 1 {
			start = fmt.Sprintf("2026-06-%02dT18:00:00-04:00", day)
		}
		periods = append(periods, map[string]any{
			"number":           i + 1,
			"name":             fmt.Sprintf("Period %d", i+1),
			"startTime":        start,
			"isDaytime":        i%2 == 0,
			"temperature":      85,
			"temperatureUnit":  "F",
			"windSpeed":        "5 to 10 mph",
			"windDirection":    "E",
			"shortForecast":    "Sunny",
			"detailedForecast": "Sunny, with a high near 85.",
		})
	}
	return periods
}

type agentLog struct {
	mu     sync.Mutex
	agents []string
}

func (a *agentLog) add(ua string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.agents = append(a.agents, ua)
}

func (a *agentLog) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.agents...)
}

// newNWSServer serves /points/ and a forecast document. The forecast URL in the
// points response points back at the same server.
func newNWSServer(t *testing.T, periods []map[string]any) (*httptest.Server, *agentLog) {
	t.Helper()
	agents := &agentLog{}

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		agents.add(r.Header.Get("User-Agent"))
		json.NewEncoder(w).Encode(map[string]any{
			"properties": map[string]any{
				"forecast": srv.URL + "/gridpoints/MFL/110,50/forecast",
			},
		})
	})
	mux.HandleFunc("/gridpoints/MFL/110,50/forecast", func(w http.ResponseWriter, r *http.Request) {
		agents.add(r.Header.Get("User-Agent"))
		if got := r.Header.Get("Accept"); got != "application/geo+json" {
			t.Errorf("Accept = %q, want application/geo+json", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"properties": map[string]any{"periods": periods},
		})
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, agents
}

func TestClient_Fetch(t *testing.T) {
	srv, agents := newNWSServer(t, periodsJSON(4))
	client := NewClient(Config{BaseURL: srv.URL, Contact: "sun@example.com"})

	periods, err := client.Fetch(context.Background(), 26.1420, -81.7948)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(periods) != 4 {
		t.Fatalf("len(periods) = %d, want 4", len(periods))
	}

	p := periods[0]
	if p.Name != "Period 1" || !p.IsDaytime {
		t.Errorf("first period = %q daytime=%v, want Period 1 daytime", p.Name, p.IsDaytime)
	}
	if p.Temperature == nil || *p.Temperature != 85 {
		t.Errorf("Temperature = %v, want 85", p.Temperature)
	}
	if p.WindSpeed != "5 to 10 mph" {
		t.Errorf("WindSpeed = %q", p.WindSpeed)
	}
	if p.StartTime.IsZero() || p.StartTime.Day() != 1 {
		t.Errorf("StartTime = %v, want June 1", p.StartTime)
	}

	seen := agents.all()
	if len(seen) != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", len(seen))
	}
	for _, ua := range seen {
		if ua != "FlamingoForecast/1.0 (sun@example.com)" {
			t.Errorf("User-Agent = %q", ua)
		}
	}
}

func TestClient_FetchTruncatesToSevenDays(t *testing.T) {
	srv, _ := newNWSServer(t, periodsJSON(20))
	client := NewClient(Config{BaseURL: srv.URL, Contact: "sun@example.com"})

	periods, err := client.Fetch(context.Background(), 25.7617, -80.1918)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(periods) != MaxPeriods {
		t.Errorf("len(periods) = %d, want %d", len(periods), MaxPeriods)
	}
}

func TestClient_FetchPointsFormatsCoordinates(t *testing.T) {
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Contact: "sun@example.com"})
	client.Fetch(context.Background(), 18.46551234, -66.1057)

	if gotPath := <-paths; gotPath != "/points/18.4655,-66.1057" {
		t.Errorf("path = %q, want /points/18.4655,-66.1057", gotPath)
	}
}

func TestClient_FetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "points status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"title":"Data Unavailable For Requested Point"}`, http.StatusNotFound)
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				if !errors.As(err, &se) {
					t.Fatalf("error = %v, want *StatusError", err)
				}
				if se.StatusCode != http.StatusNotFound || se.Endpoint != "points" {
					t.Errorf("StatusError = %+v", se)
				}
				if !strings.Contains(err.Error(), "Data Unavailable") {
					t.Errorf("error %q should carry response body", err)
				}
			},
		},
		{
			name: "missing forecast url",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"properties":{}}`))
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNoForecastURL) {
					t.Errorf("error = %v, want ErrNoForecastURL", err)
				}
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "decode") {
					t.Errorf("error = %v, want decode error", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(Config{BaseURL: srv.URL, Contact: "sun@example.com"})
			periods, err := client.Fetch(context.Background(), 26.1, -81.7)
			if err == nil {
				t.Fatalf("expected error, got %d periods", len(periods))
			}
			tt.check(t, err)
		})
	}
}

func TestClient_FetchForecastFailure(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"properties":{"forecast":%q}}`, srv.URL+"/forecast")
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusInternalServerError)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Contact: "sun@example.com"})
	_, err := client.Fetch(context.Background(), 26.1, -81.7)

	var se *StatusError
	if !errors.As(err, &se) || se.Endpoint != "forecast" || se.StatusCode != 500 {
		t.Errorf("error = %v, want forecast status 500", err)
	}
}

func TestClient_FetchNoPeriods(t *testing.T) {
	srv, _ := newNWSServer(t, []map[string]any{})
	client := NewClient(Config{BaseURL: srv.URL, Contact: "sun@example.com"})

	_, err := client.Fetch(context.Background(), 26.1, -81.7)
	if !errors.Is(err, ErrNoPeriods) {
		t.Errorf("error = %v, want ErrNoPeriods", err)
	}
}

func TestClient_FetchToleratesMalformedPeriod(t *testing.T) {
	periods := periodsJSON(2)
	periods[0]["temperature"] = "warm"
	periods[0]["startTime"] = "tomorrow"
	periods[1]["cloudCover"] = map[string]any{"unitCode": "wmoUnit:percent", "value": 40}
	periods[1]["probabilityOfPrecipitation"] = map[string]any{"unitCode": "wmoUnit:percent", "value": nil}
	periods[1]["shortForecast"] = "Partly Cloudy &amp; Breezy"

	srv, _ := newNWSServer(t, periods)
	client := NewClient(Config{BaseURL: srv.URL, Contact: "sun@example.com"})

	got, err := client.Fetch(context.Background(), 26.1, -81.7)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got[0].Temperature != nil {
		t.Errorf("malformed temperature decoded as %v, want nil", *got[0].Temperature)
	}
	if !got[0].StartTime.IsZero() {
		t.Errorf("malformed startTime decoded as %v, want zero", got[0].StartTime)
	}
	if got[1].CloudCover == nil || *got[1].CloudCover != 40 {
		t.Errorf("CloudCover = %v, want 40", got[1].CloudCover)
	}
	if got[1].PrecipitationChance != nil {
		t.Errorf("PrecipitationChance = %v, want nil", *got[1].PrecipitationChance)
	}
	if got[1].ShortForecast != "Partly Cloudy & Breezy" {
		t.Errorf("ShortForecast = %q", got[1].ShortForecast)
	}
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{`72`, ptr(72)},
		{`null`, nil},
		{`{"unitCode":"wmoUnit:degC","value":21.5}`, ptr(21.5)},
		{`{"unitCode":"wmoUnit:percent","value":null}`, nil},
		{`"64"`, ptr(64)},
		{`"n/a"`, nil},
		{`[1,2]`, nil},
	}

	for _, tt := range tests {
		var q quantity
		if err := q.UnmarshalJSON([]byte(tt.in)); err != nil {
			t.Errorf("UnmarshalJSON(%s) error: %v", tt.in, err)
			continue
		}
		switch {
		case tt.want == nil && q.Value != nil:
			t.Errorf("UnmarshalJSON(%s) = %v, want nil", tt.in, *q.Value)
		case tt.want != nil && (q.Value == nil || *q.Value != *tt.want):
			t.Errorf("UnmarshalJSON(%s) = %v, want %v", tt.in, q.Value, *tt.want)
		}
	}
}

func TestClient_FetchHonoursContext(t *testing.T) {
	srv, _ := newNWSServer(t, periodsJSON(2))
	client := NewClient(Config{BaseURL: srv.URL, Contact: "sun@example.com", RateLimit: 1, Burst: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Fetch(ctx, 26.1, -81.7); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func ptr(f float64) *float64 { return &f }
