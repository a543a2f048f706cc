// Package templates holds the server-rendered pages. Every page is a named
// template wrapping its body in the shared "header" and "footer".
package templates

import (
	"embed"
	"html/template"
	"strconv"

	"cokothon/models"
)

//go:embed *.tmpl
var files embed.FS

// FuncMap is available to every page.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"koreanDate": func(t models.Timestamp) string { return t.KoreanDate() },
		"relationshipLabel": func(r models.Relationship) string {
			return models.Label(models.RelationshipOptions, string(r))
		},
		"supportLabel": func(l models.SupportLevel) string {
			return models.Label(models.SupportLevelOptions, string(l))
		},
		"optionLabel": func(options []models.Option, v string) string { return models.Label(options, v) },
		"idstr":       func(id int64) string { return strconv.FormatInt(id, 10) },
		"runeCount":   func(s string) int { return len([]rune(s)) },
	}
}

// Load parses every embedded page.
func Load() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(files, "*.tmpl")
}

// MustLoad is Load for program start-up.
func MustLoad() *template.Template {
	return template.Must(Load())
}
