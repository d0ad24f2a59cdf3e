package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var pageTemplate = template.Must(template.New("page.html.tmpl").ParseFS(templateFiles, "templates/page.html.tmpl"))

// RenderHTML writes the full HTML page for p.
func RenderHTML(w io.Writer, p Page) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
