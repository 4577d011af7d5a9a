package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chazu/kerf/pkg/app"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F8C8D"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true)
)

// writeSummary prints diagnostics followed by one block per part.
func writeSummary(w io.Writer, r app.Result) error {
	var b strings.Builder
	for _, e := range r.Errors {
		fmt.Fprintln(&b, errorStyle.Render("error: "+diagnostic(e)))
	}
	for _, e := range r.Warnings {
		fmt.Fprintln(&b, warnStyle.Render("warning: "+diagnostic(e)))
	}

	for i, s := range r.Stats {
		swatch := "■"
		if i < len(r.Meshes) {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(r.Meshes[i].Color)).Render(swatch)
		}
		fmt.Fprintf(&b, "%s %s\n", swatch, titleStyle.Render(s.Name))
		fmt.Fprintf(&b, "  %d faces, %d edges, %d vertices\n",
			s.Objects["face"], s.Objects["global edge"], s.Objects["global vertex"])
		fmt.Fprintf(&b, "  mesh: %d triangles, %d vertices\n", s.Triangles, s.Vertices)
		fmt.Fprintf(&b, "  bounds: %s\n", formatBounds(s.Bounds))
	}

	if r.OK() {
		fmt.Fprintln(&b, mutedStyle.Render(fmt.Sprintf("%d parts in %s", len(r.Stats), r.Elapsed)))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func diagnostic(d app.Diagnostic) string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return d.Message
}

func formatBounds(b app.Bounds) string {
	return fmt.Sprintf("(%g, %g, %g) to (%g, %g, %g)", b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}
