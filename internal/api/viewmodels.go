package api

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/lox/flamingo/internal/models"
	"github.com/lox/flamingo/internal/rating"
)

// PageData is everything the index template renders.
type PageData struct {
	Locations        []models.Location
	ConditionOptions []string
	Policies         []PolicyOption
	Form             FormValues
	Error            string
	Submitted        bool
	Results          []LocationResult
	Failed           []FailedLocation
	OGImage          string
}

// PolicyOption is one entry in the policy select.
type PolicyOption struct {
	Value string
	Label string
}

// FormValues echoes what the user submitted so the form is sticky, including
// on validation errors.
type FormValues struct {
	Locations         map[string]bool
	CustomLat         string
	CustomLon         string
	MinDayTemp        string
	MinNightTemp      string
	MaxWind           string
	WeightTemperature string
	WeightWind        string
	WeightConditions  string
	Conditions        map[string]bool
	AnySky            bool
	Policy            string
}

// LocationResult is the per-day breakdown for one location.
type LocationResult struct {
	Location models.Location
	Days     []DayView
}

// FailedLocation is a location whose forecast could not be fetched.
type FailedLocation struct {
	Name  string
	Error string
}

// DayView is one rated day card.
type DayView struct {
	Label      string
	Evaluation rating.Evaluation
	Whole      int
	Half       bool
	Icon       string
	Palette    rating.Palette
	Periods    []PeriodView
	BadgeURL   string
}

// PeriodView is the raw forecast shown under a day card.
type PeriodView struct {
	Label            string // "Day" or "Night"
	Name             string
	Temperature      string
	Wind             string
	ShortForecast    string
	DetailedForecast string
	Precipitation    string
}

func (s *Server) newPageData(form FormValues) PageData {
	policies := make([]PolicyOption, 0, len(rating.Policies))
	for _, p := range rating.Policies {
		policies = append(policies, PolicyOption{Value: string(p), Label: p.Label()})
	}
	return PageData{
		Locations:        s.locations,
		ConditionOptions: rating.ConditionOptions,
		Policies:         policies,
		Form:             form,
	}
}

// defaultForm is the blank form: the first fixed location and the default
// criteria.
func (s *Server) defaultForm() FormValues {
	c := rating.DefaultCriteria()
	form := FormValues{
		Locations:         make(map[string]bool),
		MinDayTemp:        formatNumber(c.MinDayTemp),
		MinNightTemp:      formatNumber(c.MinNightTemp),
		MaxWind:           formatNumber(c.MaxWind),
		WeightTemperature: formatNumber(c.Weights.Temperature),
		WeightWind:        formatNumber(c.Weights.Wind),
		WeightConditions:  formatNumber(c.Weights.Conditions),
		Conditions:        make(map[string]bool),
		Policy:            string(c.Policy),
	}
	if len(s.locations) > 0 {
		form.Locations[s.locations[0].Name] = true
	}
	for _, cond := range c.AllowedConditions {
		form.Conditions[cond] = true
	}
	return form
}

// submittedForm echoes the posted values; fields left blank show defaults.
func (s *Server) submittedForm(v url.Values) FormValues {
	form := s.defaultForm()
	form.Locations = make(map[string]bool)
	for _, name := range v["location"] {
		form.Locations[name] = true
	}
	form.CustomLat = v.Get("custom_lat")
	form.CustomLon = v.Get("custom_lon")

	for key, dst := range map[string]*string{
		"min_day_temp":       &form.MinDayTemp,
		"min_night_temp":     &form.MinNightTemp,
		"max_wind":           &form.MaxWind,
		"weight_temperature": &form.WeightTemperature,
		"weight_wind":        &form.WeightWind,
		"weight_conditions":  &form.WeightConditions,
	} {
		if raw := v.Get(key); raw != "" {
			*dst = raw
		}
	}

	if conds := v["conditions"]; len(conds) > 0 {
		form.Conditions = make(map[string]bool)
		for _, cond := range conds {
			if cond == anySky {
				form.AnySky = true
				continue
			}
			form.Conditions[cond] = true
		}
	}
	if p := v.Get("policy"); p != "" {
		form.Policy = p
	}
	return form
}

func newDayView(loc models.Location, d rating.Day, ev rating.Evaluation) DayView {
	daytime := d.Day != nil || d.Night == nil
	view := DayView{
		Label:      d.Label,
		Evaluation: ev,
		Whole:      ev.Whole(),
		Half:       ev.Half(),
		Icon:       ev.Condition.Icon(),
		Palette:    rating.GetPalette(ev.Condition, daytime),
	}
	for _, p := range d.Periods() {
		view.Periods = append(view.Periods, newPeriodView(p))
	}
	if ev.Evaluable {
		view.BadgeURL = badgeURL(ev.Score, loc.Name+" - "+d.Label, ev.Condition, daytime)
	}
	return view
}

func newPeriodView(p *models.Period) PeriodView {
	view := PeriodView{
		Label:            p.Label(),
		Name:             p.Name,
		Temperature:      "n/a",
		Wind:             p.WindSpeed,
		ShortForecast:    p.ShortForecast,
		DetailedForecast: p.DetailedForecast,
	}
	if p.Temperature != nil {
		view.Temperature = fmt.Sprintf("%s°%s", formatNumber(*p.Temperature), p.TemperatureUnit)
	}
	if p.WindDirection != "" {
		view.Wind += " " + p.WindDirection
	}
	if p.PrecipitationChance != nil {
		view.Precipitation = fmt.Sprintf("%.0f%%", *p.PrecipitationChance)
	}
	return view
}

func badgeURL(score float64, label string, condition rating.Condition, daytime bool) string {
	q := url.Values{}
	q.Set("score", formatNumber(score))
	q.Set("label", label)
	q.Set("condition", string(condition))
	if !daytime {
		q.Set("night", "1")
	}
	return "/badge.png?" + q.Encode()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Types below are the JSON shapes served by /api/forecast.

// ForecastResponse is every period with its own rating, plus the per-day
// evaluations.
type ForecastResponse struct {
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Criteria  rating.Criteria `json:"criteria"`
	Periods   []PeriodRating  `json:"periods"`
	Days      []DayRating     `json:"days"`
}

type PeriodJSON struct {
	Number              int      `json:"number"`
	Name                string   `json:"name"`
	StartTime           string   `json:"start_time,omitempty"`
	EndTime             string   `json:"end_time,omitempty"`
	IsDaytime           bool     `json:"is_daytime"`
	Temperature         *float64 `json:"temperature"`
	TemperatureUnit     string   `json:"temperature_unit"`
	WindSpeed           string   `json:"wind_speed"`
	WindDirection       string   `json:"wind_direction"`
	ShortForecast       string   `json:"short_forecast"`
	DetailedForecast    string   `json:"detailed_forecast"`
	CloudCover          *float64 `json:"cloud_cover,omitempty"`
	PrecipitationChance *float64 `json:"precipitation_chance,omitempty"`
}

type PeriodRating struct {
	Period PeriodJSON        `json:"period"`
	Rating rating.Evaluation `json:"rating"`
}

type DayRating struct {
	Date        string            `json:"date,omitempty"`
	Label       string            `json:"label"`
	DayPeriod   *int              `json:"day_period,omitempty"`
	NightPeriod *int              `json:"night_period,omitempty"`
	Rating      rating.Evaluation `json:"rating"`
	Explanation string            `json:"explanation"`
}

func newPeriodJSON(p models.Period) PeriodJSON {
	return PeriodJSON{
		Number:              p.Number,
		Name:                p.Name,
		StartTime:           formatTime(p.StartTime),
		EndTime:             formatTime(p.EndTime),
		IsDaytime:           p.IsDaytime,
		Temperature:         p.Temperature,
		TemperatureUnit:     p.TemperatureUnit,
		WindSpeed:           p.WindSpeed,
		WindDirection:       p.WindDirection,
		ShortForecast:       p.ShortForecast,
		DetailedForecast:    p.DetailedForecast,
		CloudCover:          p.CloudCover,
		PrecipitationChance: p.PrecipitationChance,
	}
}

func newDayRating(d rating.Day, ev rating.Evaluation) DayRating {
	out := DayRating{
		Label:       d.Label,
		Rating:      ev,
		Explanation: ev.Explanation(),
	}
	if !d.Date.IsZero() {
		out.Date = d.Date.Format("2006-01-02")
	}
	if d.Day != nil {
		n := d.Day.Number
		out.DayPeriod = &n
	}
	if d.Night != nil {
		n := d.Night.Number
		out.NightPeriod = &n
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
