package api

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates creates and parses the HTML templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
		"repeat": strings.Repeat,
		"css": func(s string) template.CSS {
			// Palette colours are fixed hex strings, never user input.
			return template.CSS(s)
		},
		"score": func(f float64) string {
			return strings.TrimSuffix(fmt.Sprintf("%.1f", f), ".0")
		},
		"percent": func(f float64) string {
			return fmt.Sprintf("%.0f%%", f*100)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
