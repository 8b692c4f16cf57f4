package main

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// pageTemplates must all be defined for the integration routes to render.
var pageTemplates = []string{"schedule.html"}

var templateFuncs = template.FuncMap{
	// statusClass maps a dose status to its CSS class, e.g. "TAKEN" -> "status-taken".
	"statusClass": func(status string) string {
		return "status-" + strings.ToLower(status)
	},
}

// LoadTemplates parses every page under dir.
func LoadTemplates(dir string) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates in %s: %w", dir, err)
	}
	for _, name := range pageTemplates {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s not found in %s", name, dir)
		}
	}
	log.Debug().Str("dir", dir).Int("count", len(tmpl.Templates())).Msg("templates loaded")
	return tmpl, nil
}
