package main

import (
	"html/template"
	"path/filepath"
)

// LoadTemplates parses HTML templates for the public dashboard pages
func LoadTemplates() *template.Template {
	tmpl := template.New("")
	files, err := filepath.Glob("web/templates/*.html")
	if err != nil {
		panic(err)
	}
	for _, f := range files {
		tmpl = template.Must(tmpl.ParseFiles(f))
	}
	return tmpl
}
