package rating

import (
	"errors"
	"math"
	"testing"
)

func TestCriteria_Validate(t *testing.T) {
	if err := DefaultCriteria().Validate(); err != nil {
		t.Fatalf("default criteria invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Criteria)
	}{
		{"nan temperature", func(c *Criteria) { c.MinDayTemp = math.NaN() }},
		{"negative wind", func(c *Criteria) { c.MaxWind = -1 }},
		{"negative weight", func(c *Criteria) { c.Weights.Wind = -0.1 }},
		{"zero weights", func(c *Criteria) { c.Weights = Weights{} }},
		{"unknown policy", func(c *Criteria) { c.Policy = "vibes" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCriteria()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != PolicyWeighted {
		t.Errorf("ParsePolicy(\"\") = %v, %v", p, err)
	}
	if p, err := ParsePolicy(" Additive "); err != nil || p != PolicyAdditive {
		t.Errorf("ParsePolicy(Additive) = %v, %v", p, err)
	}
	if _, err := ParsePolicy("random"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("ParsePolicy(random) error = %v", err)
	}
}

func TestDefaultCriteria_IsFreshValue(t *testing.T) {
	a := DefaultCriteria()
	a.AllowedConditions[0] = "Hail"
	if DefaultCriteria().AllowedConditions[0] != "Sunny" {
		t.Error("mutating one DefaultCriteria value leaked into the next")
	}
}
