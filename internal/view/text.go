package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Ayu-style palette, adaptive to light and dark terminals.
var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
)

const iconEditing = "✎"

// textStyles binds the palette to one output so color detection follows
// the writer rather than os.Stdout.
type textStyles struct {
	heading lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	editing lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		heading: r.NewStyle().Bold(true).Foreground(colorAccent),
		title:   r.NewStyle().Bold(true),
		label:   r.NewStyle().Foreground(colorMuted),
		muted:   r.NewStyle().Foreground(colorMuted),
		editing: r.NewStyle().Foreground(colorWarn),
	}
}

// RenderText writes a terminal listing of p. Styling degrades to plain text
// when w is not a terminal.
func RenderText(w io.Writer, p Page) error {
	s := newTextStyles(w)
	var b strings.Builder

	b.WriteString(s.heading.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(s.muted.Render(countLine(len(p.Cards))))
	b.WriteString("\n")

	if p.Form.Editing {
		b.WriteString(s.editing.Render(fmt.Sprintf("%s editing [%d] %s", iconEditing, p.Form.EditingIndex, p.Form.Title)))
		b.WriteString("\n")
	}

	for _, c := range p.Cards {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("[%d] ", c.Index))
		b.WriteString(s.title.Render(c.Title))
		if c.ID != "" {
			b.WriteString(" ")
			b.WriteString(s.muted.Render("(" + c.ID + ")"))
		}
		if c.Editing {
			b.WriteString(" ")
			b.WriteString(s.editing.Render(iconEditing))
		}
		b.WriteString("\n")
		writeTextField(&b, s, "Ingredients", c.Ingredients)
		writeTextField(&b, s, "Instructions", c.Instructions)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderRecipe writes a single card, as used by the show command.
func RenderRecipe(w io.Writer, c Card) error {
	s := newTextStyles(w)
	var b strings.Builder
	b.WriteString(s.title.Render(c.Title))
	b.WriteString("\n")
	writeTextField(&b, s, "ID", c.ID)
	writeTextField(&b, s, "Index", fmt.Sprintf("%d", c.Index))
	writeTextField(&b, s, "Ingredients", c.Ingredients)
	writeTextField(&b, s, "Instructions", c.Instructions)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTextField(b *strings.Builder, s textStyles, label, value string) {
	b.WriteString("    ")
	b.WriteString(s.label.Render(label + ":"))
	b.WriteString(" ")
	// Multi-line instructions stay indented under their label.
	b.WriteString(strings.ReplaceAll(value, "\n", "\n    "))
	b.WriteString("\n")
}

func countLine(n int) string {
	switch n {
	case 0:
		return "No recipes yet."
	case 1:
		return "1 recipe"
	default:
		return fmt.Sprintf("%d recipes", n)
	}
}
