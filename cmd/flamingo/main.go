package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/lox/flamingo/internal/api"
	"github.com/lox/flamingo/internal/models"
	"github.com/lox/flamingo/internal/nws"
	"github.com/lox/flamingo/internal/rating"
)

var fixedLocations = []models.Location{
	{Name: "Naples", Latitude: 26.1420, Longitude: -81.7948},
	{Name: "Fort Lauderdale", Latitude: 26.1224, Longitude: -80.1373},
	{Name: "Miami", Latitude: 25.7617, Longitude: -80.1918},
	{Name: "San Juan", Latitude: 18.4655, Longitude: -66.1057},
}

type Globals struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to .env file.'"`

	Contact    string  `name:"contact" env:"USER_EMAIL" required:"" help:"Contact email sent to api.weather.gov in the User-Agent."`
	NWSBaseURL string  `name:"nws-base-url" env:"NWS_BASE_URL" default:"https://api.weather.gov" help:"NWS API base URL."`
	NWSRate    float64 `name:"nws-rate" env:"NWS_RATE" default:"5" help:"Maximum api.weather.gov requests per second (0 disables limiting)."`
	NWSBurst   int     `name:"nws-burst" env:"NWS_BURST" default:"5" help:"Burst allowance for the NWS rate limit."`
}

func (g *Globals) client() *nws.Client {
	return nws.NewClient(nws.Config{
		BaseURL:   g.NWSBaseURL,
		Contact:   g.Contact,
		RateLimit: g.NWSRate,
		Burst:     g.NWSBurst,
	})
}

type CLI struct {
	Globals

	Serve ServeCmd `cmd:"" default:"withargs" help:"Run the web form (default)."`
	Check CheckCmd `cmd:"" help:"Print the flamingo breakdown for one location."`
}

type ServeCmd struct {
	Port string `env:"PORT" default:"8080" help:"HTTP server port."`
}

func (c *ServeCmd) Run(g *Globals) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := api.NewServer(g.client(), fixedLocations, c.Port)

	log.Printf("starting server on :%s", c.Port)
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Println("server stopped")
	return nil
}

type CheckCmd struct {
	Location string   `short:"l" help:"Fixed location: Naples, Fort Lauderdale, Miami or San Juan."`
	Lat      *float64 `help:"Latitude of a custom location."`
	Lon      *float64 `help:"Longitude of a custom location."`

	MinDayTemp   float64  `default:"75" help:"Minimum daytime temperature (°F)."`
	MinNightTemp float64  `default:"65" help:"Minimum night temperature (°F)."`
	MaxWind      float64  `default:"15" help:"Maximum wind speed (mph)."`
	Conditions   []string `sep:"," help:"Acceptable sky keywords, comma separated (default: Sunny, Mostly Sunny, Partly Sunny, Partly Cloudy, Clear, Scattered Rain)."`
	Policy       string   `enum:"weighted,additive,passfail" default:"weighted" help:"Scoring policy: weighted, additive or passfail."`
}

func (c *CheckCmd) Validate() error {
	hasCoords := c.Lat != nil || c.Lon != nil
	switch {
	case c.Location == "" && !hasCoords:
		return errors.New("either --location or --lat/--lon is required")
	case c.Location != "" && hasCoords:
		return errors.New("--location can't be combined with --lat/--lon")
	case hasCoords && (c.Lat == nil || c.Lon == nil):
		return errors.New("--lat and --lon must be given together")
	}
	return nil
}

func (c *CheckCmd) location() (models.Location, error) {
	if c.Location == "" {
		lat, lon := *c.Lat, *c.Lon
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return models.Location{}, fmt.Errorf("coordinates %v,%v out of range", lat, lon)
		}
		return models.Location{Name: fmt.Sprintf("%.4f, %.4f", lat, lon), Latitude: lat, Longitude: lon}, nil
	}
	for _, loc := range fixedLocations {
		if strings.EqualFold(loc.Name, c.Location) {
			return loc, nil
		}
	}
	return models.Location{}, fmt.Errorf("unknown location %q", c.Location)
}

func (c *CheckCmd) criteria() (rating.Criteria, error) {
	criteria := rating.DefaultCriteria()
	criteria.MinDayTemp = c.MinDayTemp
	criteria.MinNightTemp = c.MinNightTemp
	criteria.MaxWind = c.MaxWind
	if len(c.Conditions) > 0 {
		criteria.AllowedConditions = c.Conditions
	}
	policy, err := rating.ParsePolicy(c.Policy)
	if err != nil {
		return criteria, err
	}
	criteria.Policy = policy
	if err := criteria.Validate(); err != nil {
		return criteria, fmt.Errorf("invalid criteria: %w", err)
	}
	return criteria, nil
}

func (c *CheckCmd) Run(g *Globals) error {
	loc, err := c.location()
	if err != nil {
		return err
	}
	criteria, err := c.criteria()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	periods, err := g.client().Fetch(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return fmt.Errorf("fetch forecast for %s: %w", loc.Name, err)
	}

	printBreakdown(os.Stdout, loc, periods, rating.NewScorer(criteria))
	return nil
}

// printBreakdown writes one block per day: score, reasons and the raw periods.
func printBreakdown(w io.Writer, loc models.Location, periods []models.Period, scorer *rating.Scorer) {
	fmt.Fprintf(w, "%s (%s)\n", loc.Name, scorer.Criteria().Policy.Label())

	for _, d := range rating.GroupDays(periods) {
		ev := scorer.EvaluateDay(d)

		fmt.Fprintln(w)
		if ev.Evaluable {
			flamingos := strings.Repeat("🦩", ev.Whole())
			if ev.Half() {
				flamingos += "½"
			}
			if flamingos == "" {
				flamingos = "-"
			}
			fmt.Fprintf(w, "%s  %s %s  %v/5\n", d.Label, ev.Condition.Icon(), flamingos, ev.Score)
		} else {
			fmt.Fprintf(w, "%s  not rated\n", d.Label)
		}
		for _, reason := range ev.Reasons {
			fmt.Fprintf(w, "  - %s\n", reason)
		}
		for _, p := range d.Periods() {
			temp := "n/a"
			if p.Temperature != nil {
				temp = fmt.Sprintf("%v°%s", *p.Temperature, p.TemperatureUnit)
			}
			fmt.Fprintf(w, "  %-5s %s: %s, %s, wind %s %s\n",
				p.Label(), p.Name, p.ShortForecast, temp, p.WindSpeed, p.WindDirection)
		}
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("flamingo"),
		kong.Description("Rates the week's NWS forecast for sunbathing, in flamingos."),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals),
	)
	if err := ctx.Run(); err != nil {
		log.Fatalf("%s: %v", ctx.Command(), err)
	}
}
