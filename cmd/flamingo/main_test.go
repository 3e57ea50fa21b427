package main

import (
	"strings"
	"testing"
	"time"

	"github.com/lox/flamingo/internal/models"
	"github.com/lox/flamingo/internal/rating"
)

func TestCheckCmd_Validate(t *testing.T) {
	lat, lon := 26.0, -80.0

	tests := []struct {
		name    string
		cmd     CheckCmd
		wantErr bool
	}{
		{"location", CheckCmd{Location: "Miami"}, false},
		{"coordinates", CheckCmd{Lat: &lat, Lon: &lon}, false},
		{"nothing", CheckCmd{}, true},
		{"both", CheckCmd{Location: "Miami", Lat: &lat, Lon: &lon}, true},
		{"lat only", CheckCmd{Lat: &lat}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckCmd_Location(t *testing.T) {
	loc, err := (&CheckCmd{Location: "san juan"}).location()
	if err != nil {
		t.Fatal(err)
	}
	if loc.Name != "San Juan" || loc.Latitude != 18.4655 {
		t.Errorf("location = %+v", loc)
	}

	if _, err := (&CheckCmd{Location: "Atlantis"}).location(); err == nil {
		t.Error("expected unknown location error")
	}

	lat, lon := 95.0, 0.0
	if _, err := (&CheckCmd{Lat: &lat, Lon: &lon}).location(); err == nil {
		t.Error("expected out of range error")
	}
}

func TestCheckCmd_Criteria(t *testing.T) {
	c, err := (&CheckCmd{MinDayTemp: 80, MinNightTemp: 70, MaxWind: 10, Policy: "passfail"}).criteria()
	if err != nil {
		t.Fatal(err)
	}
	if c.MinDayTemp != 80 || c.Policy != rating.PolicyPassFail {
		t.Errorf("criteria = %+v", c)
	}
	if len(c.AllowedConditions) != len(rating.DefaultCriteria().AllowedConditions) {
		t.Error("no --conditions should keep the default sky list")
	}

	if _, err := (&CheckCmd{MaxWind: -5, Policy: "weighted"}).criteria(); err == nil {
		t.Error("expected invalid criteria error")
	}
}

func TestPrintBreakdown(t *testing.T) {
	temp := 90.0
	periods := []models.Period{{
		Number:          1,
		Name:            "Saturday",
		StartTime:       time.Date(2025, time.March, 8, 6, 0, 0, 0, time.UTC),
		IsDaytime:       true,
		Temperature:     &temp,
		TemperatureUnit: "F",
		WindSpeed:       "5 mph",
		WindDirection:   "E",
		ShortForecast:   "Sunny",
	}}

	var b strings.Builder
	printBreakdown(&b, fixedLocations[0], periods, rating.NewScorer(rating.DefaultCriteria()))

	out := b.String()
	for _, want := range []string{
		"Naples (Weighted factors)",
		"Saturday, March 08",
		"🦩🦩🦩🦩🦩",
		"5/5",
		"Perfect conditions for sunbathing",
		"Day   Saturday: Sunny, 90°F, wind 5 mph E",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
