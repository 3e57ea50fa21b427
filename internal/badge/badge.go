package badge

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/lox/flamingo/internal/rating"
)

var (
	fontBold    font.Face
	fontRegular font.Face
	fontOnce    sync.Once
	fontErr     error
)

func loadFonts() {
	fontOnce.Do(func() {
		boldFont, err := opentype.Parse(gobold.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse Go Bold: %w", err)
			return
		}

		fontBold, err = opentype.NewFace(boldFont, &opentype.FaceOptions{
			Size:    120,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			fontErr = fmt.Errorf("create bold face: %w", err)
			return
		}

		regularFont, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse Go Regular: %w", err)
			return
		}

		fontRegular, err = opentype.NewFace(regularFont, &opentype.FaceOptions{
			Size:    40,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			fontErr = fmt.Errorf("create regular face: %w", err)
			return
		}
	})
}

// Width and Height are the standard Open Graph image dimensions.
const (
	Width  = 1200
	Height = 630
)

// Data is what a badge shows.
type Data struct {
	Score     float64 // 0 to 5, in halves
	Label     string  // e.g. "Naples, FL - Saturday, March 08"
	Condition rating.Condition
	Daytime   bool
}

// Render draws a flamingo score badge as a PNG.
func Render(data Data) ([]byte, error) {
	loadFonts()
	if fontErr != nil {
		return nil, fmt.Errorf("load fonts: %w", fontErr)
	}
	if math.IsNaN(data.Score) || data.Score < 0 || data.Score > rating.MaxScore {
		return nil, fmt.Errorf("score %v out of range", data.Score)
	}

	pal := rating.GetPalette(data.Condition, data.Daytime)
	bg := parseHex(pal.Background)
	accent := parseHex(pal.Accent)
	text := parseHex(pal.Text)
	muted := parseHex(pal.TextMuted)

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	drawGradient(img, bg)
	drawScoreDots(img, data.Score, accent, parseHex(pal.Border))

	drawText(img, formatScore(data.Score)+" / 5", 60, 200, text, fontBold)
	if data.Label != "" {
		drawText(img, truncate(data.Label, 44), 60, Height-110, muted, fontRegular)
	}
	drawText(img, "Flamingo Forecast", 60, Height-50, accent, fontRegular)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode badge: %w", err)
	}
	return buf.Bytes(), nil
}

// drawGradient fills the image with the background colour, darkening slightly
// toward the bottom.
func drawGradient(img *image.RGBA, base color.RGBA) {
	for y := 0; y < Height; y++ {
		progress := float64(y) / float64(Height)
		shade := 1 - progress*0.12
		c := color.RGBA{
			R: uint8(float64(base.R) * shade),
			G: uint8(float64(base.G) * shade),
			B: uint8(float64(base.B) * shade),
			A: 255,
		}
		for x := 0; x < Width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawScoreDots draws five circles; whole flamingos are filled, a half
// flamingo fills the left half of its circle.
func drawScoreDots(img *image.RGBA, score float64, fill, empty color.RGBA) {
	const (
		radius = 40
		gap    = 30
		top    = 300
	)
	whole := int(math.Floor(score))
	half := score-math.Floor(score) >= 0.5

	for i := 0; i < int(rating.MaxScore); i++ {
		cx := 60 + radius + i*(2*radius+gap)
		cy := top + radius
		for y := cy - radius; y <= cy+radius; y++ {
			for x := cx - radius; x <= cx+radius; x++ {
				dx, dy := x-cx, y-cy
				if dx*dx+dy*dy > radius*radius {
					continue
				}
				c := empty
				if i < whole || (i == whole && half && x <= cx) {
					c = fill
				}
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func drawText(img *image.RGBA, s string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

// parseHex parses "#rrggbb", falling back to black.
func parseHex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{A: 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
