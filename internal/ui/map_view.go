package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/chart"
	"github.com/litescript/astromap/internal/ephemeris"
	"github.com/litescript/astromap/internal/lines"
	"github.com/litescript/astromap/internal/state"
)

// Line glyphs by angle kind.
const (
	glyphMeridianLine = '│'
	glyphLowerLine    = '┊'
	glyphRiseLine     = '●'
	glyphSetLine      = '○'
	glyphAspectLine   = '·'
	glyphParan        = '─'
)

// Body colors, cycling through a warm-to-cool palette by id.
var bodyColors = []string{
	"220", // Sun gold
	"252", // Moon silver
	"245", // Mercury gray
	"217", // Venus rose
	"203", // Mars red
	"214", // Jupiter amber
	"180", // Saturn sand
	"87",  // Uranus cyan
	"69",  // Neptune blue
	"139", // Pluto mauve
}

func bodyColor(id ephemeris.BodyID) lipgloss.Color {
	return lipgloss.Color(bodyColors[int(id)%len(bodyColors)])
}

// cell is one plotted map cell.
type cell struct {
	glyph rune
	color lipgloss.Color
}

// MapViewModel renders the world map with line loci.
type MapViewModel struct {
	width  int
	height int

	lines  []chart.Line
	parans []paranMark
}

type paranMark struct {
	lat float64
}

// NewMapViewModel creates a new map view model.
func NewMapViewModel() MapViewModel {
	return MapViewModel{width: 72, height: 20}
}

// SetSize updates the viewport size.
func (m MapViewModel) SetSize(width, height int) MapViewModel {
	if width > 4 {
		m.width = width - 2
	}
	if height > 6 {
		m.height = height - 4 // border + legend rows
	}
	return m
}

// UpdateData updates with a new chart snapshot.
func (m MapViewModel) UpdateData(snapshot state.Snapshot) MapViewModel {
	m.lines = snapshot.Lines
	m.parans = m.parans[:0]
	for _, pr := range snapshot.Parans {
		if pr.Result.OK && !pr.Result.Filtered {
			m.parans = append(m.parans, paranMark{lat: pr.Result.Latitude})
		}
	}
	return m
}

func lineGlyph(ln chart.Line) rune {
	if ln.HasAspect && ln.Aspect != 0 {
		return glyphAspectLine
	}
	switch ln.Kind {
	case astro.UpperCulm:
		return glyphMeridianLine
	case astro.LowerCulm:
		return glyphLowerLine
	case astro.Rise:
		return glyphRiseLine
	default:
		return glyphSetLine
	}
}

// View renders the map grid with border and legend.
func (m MapViewModel) View() string {
	if m.width < 10 || m.height < 5 {
		return "Terminal too small"
	}
	if len(m.lines) == 0 {
		return mutedStyle.Render("No chart yet")
	}

	grid := make([][]cell, m.height)
	for i := range grid {
		grid[i] = make([]cell, m.width)
		for j := range grid[i] {
			grid[i][j] = cell{glyph: ' '}
		}
	}

	// Equator reference
	eqRow := m.height / 2
	eqColor := lipgloss.Color("238")
	for j := 0; j < m.width; j++ {
		grid[eqRow][j] = cell{glyph: '-', color: eqColor}
	}

	plot := func(lon, lat float64, glyph rune, color lipgloss.Color) {
		col := int((lon + math.Pi) / (2 * math.Pi) * float64(m.width-1))
		row := int((math.Pi/2 - lat) / math.Pi * float64(m.height-1))
		if col < 0 || col >= m.width || row < 0 || row >= m.height {
			return
		}
		grid[row][col] = cell{glyph: glyph, color: color}
	}

	// Paran latitude marks first, lines draw over them.
	paranColor := lipgloss.Color("240")
	for _, p := range m.parans {
		row := int((math.Pi/2 - p.lat) / math.Pi * float64(m.height-1))
		if row < 0 || row >= m.height {
			continue
		}
		for j := 0; j < m.width; j += 4 {
			if grid[row][j].glyph == ' ' || grid[row][j].glyph == '-' {
				grid[row][j] = cell{glyph: glyphParan, color: paranColor}
			}
		}
	}

	for _, ln := range m.lines {
		glyph := lineGlyph(ln)
		color := bodyColor(ln.Body)
		if ln.Locus.Kind == lines.KindMeridian {
			for i := 0; i < m.height; i++ {
				lat := math.Pi/2 - float64(i)/float64(m.height-1)*math.Pi
				plot(ln.Locus.Longitude, lat, glyph, color)
			}
			continue
		}
		for _, seg := range ln.Locus.Segments {
			for _, p := range seg {
				plot(p.Lon, p.Lat, glyph, color)
			}
		}
	}

	borderColor := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	var b strings.Builder
	b.WriteString(borderColor.Render("┌" + strings.Repeat("─", m.width) + "┐"))
	b.WriteString("\n")
	for _, row := range grid {
		b.WriteString(borderColor.Render("│"))
		for _, c := range row {
			if c.glyph == ' ' {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(c.color).Render(string(c.glyph)))
		}
		b.WriteString(borderColor.Render("│"))
		b.WriteString("\n")
	}
	b.WriteString(borderColor.Render("└" + strings.Repeat("─", m.width) + "┘"))
	b.WriteString("\n")
	b.WriteString(m.renderLegend())

	return b.String()
}

func (m MapViewModel) renderLegend() string {
	seen := make(map[ephemeris.BodyID]bool)
	var parts []string
	for _, ln := range m.lines {
		if seen[ln.Body] {
			continue
		}
		seen[ln.Body] = true
		style := lipgloss.NewStyle().Foreground(bodyColor(ln.Body))
		parts = append(parts, style.Render(ln.Body.String()))
	}
	legend := "Bodies: " + strings.Join(parts, " ")
	keys := mutedStyle.Render("  │ MC  ┊ IC  ● ASC  ○ DSC  · aspect  ─ paran")
	return legend + keys
}

func degrees(rad float64) float64 {
	return astro.RadToDeg(rad)
}
