package rating

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lox/flamingo/internal/models"
)

const (
	// MaxScore is five flamingos.
	MaxScore = 5.0

	// tempBand is how many degrees below the minimum the temperature factor
	// takes to fall from 1 to 0.
	tempBand = 10.0
	// windBand is the same for mph above the maximum.
	windBand = 5.0

	PerfectReason = "Perfect conditions for sunbathing"
)

var (
	ErrMissingTemperature = errors.New("missing temperature")
	ErrBadWindSpeed       = errors.New("unparseable wind speed")
)

// Factors are the per-factor sub-scores in [0, 1].
type Factors struct {
	Temperature float64 `json:"temperature"`
	Wind        float64 `json:"wind"`
	Conditions  float64 `json:"conditions"`
}

// Evaluation is the verdict for one day (or one period).
type Evaluation struct {
	Score     float64        `json:"score"`
	Evaluable bool           `json:"evaluable"`
	Reasons   []string       `json:"reasons"`
	Factors   Factors        `json:"factors"`
	Condition Condition      `json:"condition"`
	Policy    Policy         `json:"policy"`
	Day       *models.Period `json:"-"`
	Night     *models.Period `json:"-"`
}

// Explanation joins the reasons into one line.
func (e Evaluation) Explanation() string {
	return strings.Join(e.Reasons, "; ")
}

// Perfect reports whether nothing fell short.
func (e Evaluation) Perfect() bool {
	return e.Evaluable && len(e.Reasons) == 1 && e.Reasons[0] == PerfectReason
}

// Whole is the number of full flamingos.
func (e Evaluation) Whole() int {
	return int(math.Floor(e.Score))
}

// Half reports whether the score ends in half a flamingo.
func (e Evaluation) Half() bool {
	return e.Score-math.Floor(e.Score) >= 0.5
}

// Scorer rates forecast periods against fixed criteria.
type Scorer struct {
	criteria Criteria
	weights  Weights
	allowed  map[Condition]bool
}

// NewScorer builds a scorer. Criteria should already have passed Validate;
// an empty policy means PolicyWeighted.
func NewScorer(c Criteria) *Scorer {
	if c.Policy == "" {
		c.Policy = PolicyWeighted
	}
	return &Scorer{
		criteria: c,
		weights:  c.Weights.normalized(),
		allowed:  c.allowedSet(),
	}
}

func (s *Scorer) Criteria() Criteria {
	return s.criteria
}

// reading is a period with its numbers parsed.
type reading struct {
	period    *models.Period
	temp      float64
	wind      float64
	condition Condition
}

func read(p *models.Period) (reading, error) {
	temp, ok := p.TemperatureF()
	if !ok {
		return reading{}, ErrMissingTemperature
	}
	wind, err := ParseWindSpeed(p.WindSpeed)
	if err != nil {
		return reading{}, err
	}
	return reading{
		period:    p,
		temp:      temp,
		wind:      wind,
		condition: Classify(p.ShortForecast),
	}, nil
}

// inputs is what the policies see: the main period with the temperature
// threshold that applies to it, and optionally the following night.
type inputs struct {
	main    reading
	minTemp float64
	night   bool // main is a night period
	after   *reading
}

// EvaluateDay rates a calendar day from its daytime period, taking the night
// temperature into account when a night period is present.
func (s *Scorer) EvaluateDay(d Day) Evaluation {
	if d.Day == nil {
		return s.notEvaluable(d.Day, d.Night, "No daytime forecast for this date")
	}

	main, err := read(d.Day)
	if err != nil {
		return s.notEvaluable(d.Day, d.Night, fmt.Sprintf("Unable to evaluate: %v", err))
	}

	in := inputs{main: main, minTemp: s.criteria.MinDayTemp}
	if d.Night != nil {
		// Only the night temperature matters; a night without one is ignored.
		if temp, ok := d.Night.TemperatureF(); ok {
			in.after = &reading{period: d.Night, temp: temp, condition: Classify(d.Night.ShortForecast)}
		}
	}

	ev := s.evaluate(in)
	ev.Day, ev.Night = d.Day, d.Night
	return ev
}

// EvaluatePeriod rates a single period on its own, using the night minimum for
// night periods.
func (s *Scorer) EvaluatePeriod(p models.Period) Evaluation {
	main, err := read(&p)
	if err != nil {
		ev := s.notEvaluable(nil, nil, fmt.Sprintf("Unable to evaluate: %v", err))
		s.attach(&ev, &p)
		return ev
	}

	in := inputs{main: main, minTemp: s.criteria.MinDayTemp}
	if !p.IsDaytime {
		in.minTemp = s.criteria.MinNightTemp
		in.night = true
	}
	ev := s.evaluate(in)
	s.attach(&ev, &p)
	return ev
}

func (s *Scorer) attach(ev *Evaluation, p *models.Period) {
	if p.IsDaytime {
		ev.Day = p
	} else {
		ev.Night = p
	}
}

func (s *Scorer) evaluate(in inputs) Evaluation {
	switch s.criteria.Policy {
	case PolicyAdditive:
		return s.additive(in)
	case PolicyPassFail:
		return s.passFail(in)
	default:
		return s.weighted(in)
	}
}

func (s *Scorer) notEvaluable(day, night *models.Period, reason string) Evaluation {
	return Evaluation{
		Score:     0,
		Evaluable: false,
		Reasons:   []string{reason},
		Condition: ConditionUnknown,
		Policy:    s.criteria.Policy,
		Day:       day,
		Night:     night,
	}
}

func (s *Scorer) factors(in inputs) Factors {
	temp := temperatureFactor(in.main.temp, in.minTemp)
	if in.after != nil {
		temp = math.Min(temp, temperatureFactor(in.after.temp, s.criteria.MinNightTemp))
	}
	return Factors{
		Temperature: temp,
		Wind:        windFactor(in.main.wind, s.criteria.MaxWind),
		Conditions:  s.conditionFactor(in.main),
	}
}

func (s *Scorer) weighted(in inputs) Evaluation {
	f := s.factors(in)
	total := s.weights.Temperature*f.Temperature +
		s.weights.Wind*f.Wind +
		s.weights.Conditions*f.Conditions

	return Evaluation{
		Score:     clampScore(roundHalf(total * MaxScore)),
		Evaluable: true,
		Reasons:   withPerfect(s.shortfalls(in, f)),
		Factors:   f,
		Condition: in.main.condition,
		Policy:    PolicyWeighted,
	}
}

func (s *Scorer) passFail(in inputs) Evaluation {
	f := s.factors(in)
	reasons := s.shortfalls(in, f)

	score := 0.0
	if s.passes(in) {
		score = MaxScore
	}
	return Evaluation{
		Score:     score,
		Evaluable: true,
		Reasons:   withPerfect(reasons),
		Factors:   f,
		Condition: in.main.condition,
		Policy:    PolicyPassFail,
	}
}

// additive hands out bonus flamingos for comfortably beating the thresholds:
// up to 2 for heat, 0.5 for a warm night, 1 for a light breeze and 1.5 for
// full sun. A day that passes every threshold gets at least one.
func (s *Scorer) additive(in inputs) Evaluation {
	f := s.factors(in)
	ev := Evaluation{
		Evaluable: true,
		Factors:   f,
		Condition: in.main.condition,
		Policy:    PolicyAdditive,
	}

	if !s.passes(in) {
		ev.Reasons = s.shortfalls(in, f)
		return ev
	}

	c := s.criteria
	var score float64
	var reasons []string

	switch {
	case in.main.temp >= in.minTemp+15:
		score += 2
	case in.main.temp >= in.minTemp+7:
		score++
		reasons = append(reasons, fmt.Sprintf("Warm but not hot: %s (%s or warmer earns full marks)",
			fahrenheit(in.main.temp), fahrenheit(in.minTemp+15)))
	default:
		reasons = append(reasons, fmt.Sprintf("Only just warm enough: %s (%s or warmer earns full marks)",
			fahrenheit(in.main.temp), fahrenheit(in.minTemp+15)))
	}

	// With no night forecast to judge there is nothing to hold against the day.
	switch {
	case in.after == nil:
		score += 0.5
	case in.after.temp >= c.MinNightTemp+5:
		score += 0.5
	default:
		reasons = append(reasons, fmt.Sprintf("Cool evening: %s (%s or warmer earns the night bonus)",
			fahrenheit(in.after.temp), fahrenheit(c.MinNightTemp+5)))
	}

	if in.main.wind <= c.MaxWind-7 {
		score++
	} else {
		reasons = append(reasons, fmt.Sprintf("Breezy: %s (%s or calmer earns the wind bonus)",
			mph(in.main.wind), mph(math.Max(c.MaxWind-7, 0))))
	}

	bonus, full := skyBonus(in.main.period.ShortForecast)
	score += bonus
	if !full {
		reasons = append(reasons, fmt.Sprintf("Sky: %s (only full sun earns the sky bonus)", in.main.period.ShortForecast))
	}

	score = roundHalf(score)
	if score < 1 {
		score = 1
	}
	ev.Score = clampScore(score)
	ev.Reasons = withPerfect(reasons)
	return ev
}

// skyBonus scores the sky wording for the additive policy. The second result
// reports whether the bonus is the maximum.
func skyBonus(shortForecast string) (float64, bool) {
	lower := strings.ToLower(shortForecast)
	wet := strings.Contains(lower, "scattered") || strings.Contains(lower, "rain") || strings.Contains(lower, "shower")

	switch {
	case strings.Contains(lower, "partly sunny") && !wet:
		return 0.5, false
	case strings.Contains(lower, "mostly sunny") && !wet:
		return 1, false
	case strings.Contains(lower, "sunny") && !wet:
		return 1.5, true
	case strings.Contains(lower, "clear"):
		return 0.5, false
	case strings.Contains(lower, "scattered") && (strings.Contains(lower, "rain") || strings.Contains(lower, "shower")):
		return 0.25, false
	default:
		return 0, false
	}
}

// passes is the basic threshold check shared by the pass/fail and additive
// policies.
func (s *Scorer) passes(in inputs) bool {
	if in.main.temp < in.minTemp {
		return false
	}
	if in.after != nil && in.after.temp < s.criteria.MinNightTemp {
		return false
	}
	if in.main.wind > s.criteria.MaxWind {
		return false
	}
	return s.conditionAllowed(in.main.condition)
}

func (s *Scorer) conditionAllowed(c Condition) bool {
	return s.allowed == nil || s.allowed[c]
}

func (s *Scorer) conditionFactor(r reading) float64 {
	if !s.conditionAllowed(r.condition) {
		return 0
	}
	score := r.condition.Desirability()
	if cc := r.period.CloudCover; cc != nil && r.condition.cloudy() {
		score *= 1 - math.Max(0, math.Min(*cc, 100))/100
	}
	return score
}

// shortfalls lists every factor below ideal, in the fixed order temperature
// (day, then night), wind, conditions.
func (s *Scorer) shortfalls(in inputs, f Factors) []string {
	c := s.criteria
	var reasons []string

	if in.main.temp < in.minTemp {
		when := "during the day"
		if in.night {
			when = "at night"
		}
		reasons = append(reasons, fmt.Sprintf("Too cold %s: %s is below the %s minimum",
			when, fahrenheit(in.main.temp), fahrenheit(in.minTemp)))
	}
	if in.after != nil && in.after.temp < c.MinNightTemp {
		reasons = append(reasons, fmt.Sprintf("Too cold at night: %s is below the %s minimum",
			fahrenheit(in.after.temp), fahrenheit(c.MinNightTemp)))
	}

	if in.main.wind > c.MaxWind {
		reasons = append(reasons, fmt.Sprintf("Too windy: %s is above the %s maximum",
			mph(in.main.wind), mph(c.MaxWind)))
	}

	text := in.main.period.ShortForecast
	switch {
	case !s.conditionAllowed(in.main.condition):
		reasons = append(reasons, fmt.Sprintf("%q (%s) is not an accepted sky condition",
			text, strings.ToLower(in.main.condition.Label())))
	case f.Conditions < 1:
		reason := fmt.Sprintf("Less than full sun: %q", text)
		if cc := in.main.period.CloudCover; cc != nil && in.main.condition.cloudy() {
			reason += fmt.Sprintf(" with %.0f%% cloud cover", *cc)
		}
		reasons = append(reasons, reason)
	}

	return reasons
}

func withPerfect(reasons []string) []string {
	if len(reasons) == 0 {
		return []string{PerfectReason}
	}
	return reasons
}

func temperatureFactor(temp, minimum float64) float64 {
	if temp >= minimum {
		return 1
	}
	return math.Max(0, 1-(minimum-temp)/tempBand)
}

func windFactor(wind, maximum float64) float64 {
	if wind <= maximum {
		return 1
	}
	return math.Max(0, 1-(wind-maximum)/windBand)
}

func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(MaxScore, v))
}

var windNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseWindSpeed reads NWS wind text ("5 mph", "5 to 10 mph", "Calm") into
// mph. Ranges are judged at their upper bound; km/h and knots are converted.
func ParseWindSpeed(s string) (float64, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	nums := windNumber.FindAllString(lower, -1)
	if len(nums) == 0 {
		if lower == "calm" {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrBadWindSpeed, s)
	}

	var top float64
	for _, n := range nums {
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadWindSpeed, s)
		}
		top = math.Max(top, v)
	}

	switch {
	case strings.Contains(lower, "km/h"):
		top *= 0.621371
	case strings.Contains(lower, "kt") || strings.Contains(lower, "knot"):
		top *= 1.15078
	}
	return top, nil
}

func fahrenheit(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64) + "°F"
}

func mph(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64) + " mph"
}
