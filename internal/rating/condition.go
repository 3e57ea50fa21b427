package rating

import "strings"

// Condition is a categorized sky state derived from an NWS short forecast.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionPartlyCloudy Condition = "partly_cloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionOvercast     Condition = "overcast"
	ConditionRain         Condition = "rain"
	ConditionStorm        Condition = "storm"
	ConditionUnknown      Condition = "unknown"
)

// conditionKeywords is checked in order and the first keyword contained in
// the forecast wins. Severe weather comes first so that "Sunny then Chance
// Showers" counts as rain, and "partly sunny" is matched before "sunny".
var conditionKeywords = []struct {
	condition Condition
	keywords  []string
}{
	{ConditionStorm, []string{"thunderstorm", "t-storm", "storm", "lightning"}},
	{ConditionRain, []string{"rain", "shower", "drizzle"}},
	{ConditionPartlyCloudy, []string{"partly sunny", "partly cloudy", "mix of sun and clouds"}},
	{ConditionOvercast, []string{"overcast"}},
	{ConditionCloudy, []string{"mostly cloudy", "cloudy"}},
	{ConditionClear, []string{"sunny", "clear", "fair"}},
}

var conditionScores = map[Condition]float64{
	ConditionClear:        1.0,
	ConditionPartlyCloudy: 0.8,
	ConditionCloudy:       0.6,
	ConditionOvercast:     0.4,
	ConditionRain:         0.2,
	ConditionStorm:        0.1,
	ConditionUnknown:      0.5,
}

var conditionIcons = map[Condition]string{
	ConditionClear:        "☀️",
	ConditionPartlyCloudy: "⛅",
	ConditionCloudy:       "☁️",
	ConditionOvercast:     "☁️",
	ConditionRain:         "🌧️",
	ConditionStorm:        "⛈️",
	ConditionUnknown:      "❓",
}

var conditionLabels = map[Condition]string{
	ConditionClear:        "Clear",
	ConditionPartlyCloudy: "Partly cloudy",
	ConditionCloudy:       "Cloudy",
	ConditionOvercast:     "Overcast",
	ConditionRain:         "Rain",
	ConditionStorm:        "Storms",
	ConditionUnknown:      "Unknown",
}

// Classify maps free-text forecast wording to a Condition. Matching is
// case-insensitive.
func Classify(shortForecast string) Condition {
	lower := strings.ToLower(shortForecast)
	for _, entry := range conditionKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.condition
			}
		}
	}
	return ConditionUnknown
}

// Desirability is how good the sky is for sunbathing, from 0 to 1.
func (c Condition) Desirability() float64 {
	if s, ok := conditionScores[c]; ok {
		return s
	}
	return conditionScores[ConditionUnknown]
}

// Icon returns an emoji for the condition.
func (c Condition) Icon() string {
	if icon, ok := conditionIcons[c]; ok {
		return icon
	}
	return conditionIcons[ConditionUnknown]
}

func (c Condition) Label() string {
	if l, ok := conditionLabels[c]; ok {
		return l
	}
	return conditionLabels[ConditionUnknown]
}

// cloudy reports whether cloud cover percentages refine this condition.
func (c Condition) cloudy() bool {
	switch c {
	case ConditionPartlyCloudy, ConditionCloudy, ConditionOvercast:
		return true
	}
	return false
}
