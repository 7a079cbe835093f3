package board

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates
var templateFiles embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFiles, "templates/page.html.tmpl"))

// DefaultTitle is the page heading used when none is configured.
const DefaultTitle = "Mergington High School"

type pageData struct {
	Title string
	View  View
}

// RenderHTML writes the full board page. All server-provided strings are
// escaped by html/template.
func RenderHTML(w io.Writer, title string, v View) error {
	if title == "" {
		title = DefaultTitle
	}
	if err := pageTemplate.Execute(w, pageData{Title: title, View: v}); err != nil {
		return fmt.Errorf("rendering board page: %w", err)
	}
	return nil
}

// RenderText writes a plain-text rendering of the board for terminals.
func RenderText(w io.Writer, v View) error {
	var sb strings.Builder

	if text := v.ListText(); text != "" {
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	for i, c := range v.Cards {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s\n", c.Name)
		fmt.Fprintf(&sb, "  Description: %s\n", c.Description)
		fmt.Fprintf(&sb, "  Schedule: %s\n", c.Schedule)
		fmt.Fprintf(&sb, "  Available Spots: %d / %d\n", c.AvailableSpots, c.MaxParticipants)
		sb.WriteString("  Current Participants:\n")
		for _, p := range c.Participants {
			fmt.Fprintf(&sb, "    - %s\n", p.Email)
		}
	}
	if !v.Message.Hidden && v.Message.Text != "" {
		fmt.Fprintf(&sb, "\n[%s] %s\n", v.Message.Class, v.Message.Text)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
