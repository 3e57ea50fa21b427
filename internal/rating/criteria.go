package rating

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Policy selects how a day's factors are turned into flamingos.
type Policy string

const (
	// PolicyWeighted blends temperature, wind and sky factors by weight.
	PolicyWeighted Policy = "weighted"
	// PolicyAdditive gates on the thresholds, then hands out bonus flamingos
	// for beating them comfortably.
	PolicyAdditive Policy = "additive"
	// PolicyPassFail awards all five flamingos or none.
	PolicyPassFail Policy = "passfail"
)

// Policies lists the available policies in display order.
var Policies = []Policy{PolicyWeighted, PolicyAdditive, PolicyPassFail}

var ErrUnknownPolicy = errors.New("unknown scoring policy")

// ParsePolicy accepts a policy name; empty means the weighted default.
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return PolicyWeighted, nil
	}
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Policies {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p Policy) Label() string {
	switch p {
	case PolicyWeighted:
		return "Weighted factors"
	case PolicyAdditive:
		return "Bonus flamingos"
	case PolicyPassFail:
		return "Pass / fail"
	default:
		return string(p)
	}
}

// Weights is the relative importance of each factor in PolicyWeighted.
type Weights struct {
	Temperature float64 `json:"temperature"`
	Wind        float64 `json:"wind"`
	Conditions  float64 `json:"conditions"`
}

// DefaultWeights favours temperature slightly.
var DefaultWeights = Weights{Temperature: 0.4, Wind: 0.3, Conditions: 0.3}

func (w Weights) sum() float64 {
	return w.Temperature + w.Wind + w.Conditions
}

// normalized scales the weights to sum to 1 so that user input like 2/1/1
// behaves like 0.5/0.25/0.25.
func (w Weights) normalized() Weights {
	total := w.sum()
	if total <= 0 || math.Abs(total-1) < 1e-9 {
		return w
	}
	return Weights{
		Temperature: w.Temperature / total,
		Wind:        w.Wind / total,
		Conditions:  w.Conditions / total,
	}
}

// ConditionOptions are the sky keywords offered on the form.
var ConditionOptions = []string{
	"Sunny",
	"Mostly Sunny",
	"Partly Sunny",
	"Partly Cloudy",
	"Clear",
	"Scattered Rain",
	"Mostly Cloudy",
	"Overcast",
	"Thunderstorms",
}

// Criteria are the thresholds a day is judged against. Temperatures are in
// Fahrenheit and wind in mph.
type Criteria struct {
	MinDayTemp   float64 `json:"min_day_temp"`
	MinNightTemp float64 `json:"min_night_temp"`
	MaxWind      float64 `json:"max_wind"`
	// AllowedConditions restricts acceptable skies by keyword ("Sunny",
	// "Partly Cloudy"). Empty allows every sky.
	AllowedConditions []string `json:"allowed_conditions"`
	Weights           Weights  `json:"weights"`
	Policy            Policy   `json:"policy"`
}

// DefaultCriteria returns the out-of-the-box thresholds. Each call returns a
// fresh value.
func DefaultCriteria() Criteria {
	return Criteria{
		MinDayTemp:   75,
		MinNightTemp: 65,
		MaxWind:      15,
		AllowedConditions: []string{
			"Sunny",
			"Mostly Sunny",
			"Partly Sunny",
			"Partly Cloudy",
			"Clear",
			"Scattered Rain",
		},
		Weights: DefaultWeights,
		Policy:  PolicyWeighted,
	}
}

// Validate reports criteria that can't produce a meaningful score.
func (c Criteria) Validate() error {
	thresholds := []struct {
		name  string
		value float64
	}{
		{"minimum day temperature", c.MinDayTemp},
		{"minimum night temperature", c.MinNightTemp},
		{"maximum wind", c.MaxWind},
	}
	for _, t := range thresholds {
		if math.IsNaN(t.value) || math.IsInf(t.value, 0) {
			return fmt.Errorf("%s must be a number", t.name)
		}
	}
	if c.MaxWind < 0 {
		return errors.New("maximum wind can't be negative")
	}
	if c.Weights.Temperature < 0 || c.Weights.Wind < 0 || c.Weights.Conditions < 0 {
		return errors.New("weights can't be negative")
	}
	if c.Weights.sum() <= 0 {
		return errors.New("at least one weight must be positive")
	}
	if _, err := ParsePolicy(string(c.Policy)); err != nil {
		return err
	}
	return nil
}

// allowedSet maps the allowed keywords to the conditions they classify as.
// A nil set means unrestricted.
func (c Criteria) allowedSet() map[Condition]bool {
	if len(c.AllowedConditions) == 0 {
		return nil
	}
	set := make(map[Condition]bool, len(c.AllowedConditions))
	for _, kw := range c.AllowedConditions {
		set[Classify(kw)] = true
	}
	return set
}
