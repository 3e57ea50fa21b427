package models

import "time"

// Location is a named point the forecast is fetched for.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Period is one day or night segment of an NWS forecast.
type Period struct {
	Number              int
	Name                string
	StartTime           time.Time
	EndTime             time.Time
	IsDaytime           bool
	Temperature         *float64
	TemperatureUnit     string
	WindSpeed           string // "5 mph", "5 to 10 mph"
	WindDirection       string
	ShortForecast       string
	DetailedForecast    string
	CloudCover          *float64 // percent
	PrecipitationChance *float64 // percent
}

// TemperatureF returns the temperature in Fahrenheit, converting from Celsius
// when the upstream unit says so.
func (p Period) TemperatureF() (float64, bool) {
	if p.Temperature == nil {
		return 0, false
	}
	if p.TemperatureUnit == "C" {
		return *p.Temperature*9/5 + 32, true
	}
	return *p.Temperature, true
}

// Label is "Day" or "Night".
func (p Period) Label() string {
	if p.IsDaytime {
		return "Day"
	}
	return "Night"
}
