package rating

// Palette defines the card colours for a sky condition by day or night.
type Palette struct {
	// Background is the card background
	Background string
	// Border outlines the card and separates its header
	Border string
	// Text is the primary text color
	Text string
	// TextMuted is used for the detailed forecast
	TextMuted string
	// Accent colours the date and flamingo row
	Accent string
}

// DefaultPalette is the fallback pink theme.
var DefaultPalette = Palette{
	Background: "#fff0f5",
	Border:     "#ffb6c1",
	Text:       "#2c3e50",
	TextMuted:  "#666666",
	Accent:     "#ff69b4",
}

// palettes maps condition+time keys to colour schemes.
// Day palettes are warm and light, night palettes darker.
var palettes = map[string]Palette{
	"clear_day": {
		Background: "#fff8e7", // sunlit cream
		Border:     "#ffd27f",
		Text:       "#3a2a10",
		TextMuted:  "#806a40",
		Accent:     "#ff69b4",
	},
	"clear_night": {
		Background: "#1c1830",
		Border:     "#3a3460",
		Text:       "#f0eefa",
		TextMuted:  "#a09cc0",
		Accent:     "#ff8fc8",
	},
	"partly_cloudy_day": {
		Background: "#fff0f5",
		Border:     "#ffb6c1",
		Text:       "#2c3e50",
		TextMuted:  "#6a6a7a",
		Accent:     "#ff69b4",
	},
	"partly_cloudy_night": {
		Background: "#222436",
		Border:     "#3c3f58",
		Text:       "#eceef8",
		TextMuted:  "#9a9cb4",
		Accent:     "#f48fb1",
	},
	"cloudy_day": {
		Background: "#f1f2f5", // soft grey
		Border:     "#cfd3dc",
		Text:       "#2a3040",
		TextMuted:  "#6a7080",
		Accent:     "#c2185b",
	},
	"cloudy_night": {
		Background: "#1e2128",
		Border:     "#363a44",
		Text:       "#e0e2e8",
		TextMuted:  "#8a8e98",
		Accent:     "#d81b60",
	},
	"overcast_day": {
		Background: "#e9eaee",
		Border:     "#c4c7cf",
		Text:       "#252a36",
		TextMuted:  "#646a78",
		Accent:     "#ad1457",
	},
	"overcast_night": {
		Background: "#1a1c22",
		Border:     "#30333c",
		Text:       "#dadce2",
		TextMuted:  "#80848e",
		Accent:     "#c2185b",
	},
	"rain_day": {
		Background: "#e8f0f6", // wet blue-grey
		Border:     "#b8cde0",
		Text:       "#1a2a3a",
		TextMuted:  "#546a80",
		Accent:     "#8e4585",
	},
	"rain_night": {
		Background: "#121a24",
		Border:     "#24323f",
		Text:       "#d8e2ec",
		TextMuted:  "#6a8096",
		Accent:     "#b06ab3",
	},
	"storm_day": {
		Background: "#e4e2ec", // bruised purple
		Border:     "#b4aec8",
		Text:       "#1e1a2c",
		TextMuted:  "#5a5470",
		Accent:     "#6a1b9a",
	},
	"storm_night": {
		Background: "#100e18",
		Border:     "#262236",
		Text:       "#dcd8e8",
		TextMuted:  "#6e6888",
		Accent:     "#9c4dcc",
	},
}

// GetPalette returns the palette for a condition, by day or by night.
func GetPalette(condition Condition, daytime bool) Palette {
	key := string(condition) + "_night"
	if daytime {
		key = string(condition) + "_day"
	}
	if p, ok := palettes[key]; ok {
		return p
	}
	return DefaultPalette
}
