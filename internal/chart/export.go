// Package chart renders computed charts to headless output formats:
// indented JSON, a fixed-width summary table, and an ASCII world map.
package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/ephemeris"
	"github.com/litescript/astromap/internal/lines"
	"github.com/litescript/astromap/internal/paran"
)

// Line is one generated line locus tagged with its origin.
type Line struct {
	Body      ephemeris.BodyID
	Kind      astro.AngleKind
	Aspect    float64 // radians, meaningful when HasAspect
	HasAspect bool
	Locus     lines.Locus
}

// SnapshotExport is the JSON-serializable representation of one computed
// chart.
type SnapshotExport struct {
	Time            time.Time     `json:"time"`
	GeneratedAt     time.Time     `json:"generated_at"`
	SiderealTimeDeg float64       `json:"sidereal_time_deg"`
	ObliquityDeg    float64       `json:"obliquity_deg"`
	Bodies          []BodyExport  `json:"bodies"`
	Parans          []ParanExport `json:"parans,omitempty"`
	Lines           []LineExport  `json:"lines,omitempty"`
}

// BodyExport is a JSON-friendly body position, degrees.
type BodyExport struct {
	Name      string  `json:"name"`
	RADeg     float64 `json:"ra_deg"`
	DecDeg    float64 `json:"dec_deg"`
	EclLonDeg float64 `json:"ecl_lon_deg"`
	EclLatDeg float64 `json:"ecl_lat_deg"`
}

// ParanExport is a JSON-friendly paran outcome. Latitude is omitted when
// the query has no point solution.
type ParanExport struct {
	BodyA        string   `json:"body_a"`
	AngleA       string   `json:"angle_a"`
	BodyB        string   `json:"body_b"`
	AngleB       string   `json:"angle_b"`
	LatitudeDeg  *float64 `json:"latitude_deg,omitempty"`
	AllLatitudes bool     `json:"all_latitudes,omitempty"`
	Reason       string   `json:"reason,omitempty"`
	ResidualDeg  float64  `json:"residual_deg,omitempty"`
	PoleLimited  bool     `json:"pole_limited,omitempty"`
	Filtered     bool     `json:"filtered,omitempty"`
}

// LineExport is a JSON-friendly line locus. Meridians carry a single
// longitude; curves carry segments of [lon, lat] pairs, degrees.
type LineExport struct {
	Body         string         `json:"body"`
	Angle        string         `json:"angle"`
	Aspect       string         `json:"aspect,omitempty"`
	AspectDeg    float64        `json:"aspect_deg,omitempty"`
	Kind         string         `json:"kind"`
	LongitudeDeg float64        `json:"longitude_deg,omitempty"`
	Segments     [][][2]float64 `json:"segments,omitempty"`
}

// ExportSnapshot converts a computed chart to its exportable form.
func ExportSnapshot(b *ephemeris.Batch, parans []paran.PairResult, chartLines []Line, generatedAt time.Time) *SnapshotExport {
	export := &SnapshotExport{
		Time:            b.Instant.Time,
		GeneratedAt:     generatedAt,
		SiderealTimeDeg: astro.RadToDeg(b.Instant.ThetaG),
		ObliquityDeg:    astro.RadToDeg(b.Instant.Obliquity),
	}

	for _, id := range b.Bodies() {
		pos, _ := b.Position(id)
		export.Bodies = append(export.Bodies, BodyExport{
			Name:      id.String(),
			RADeg:     astro.RadToDeg(pos.Alpha),
			DecDeg:    astro.RadToDeg(pos.Delta),
			EclLonDeg: astro.RadToDeg(pos.Lambda),
			EclLatDeg: astro.RadToDeg(pos.Beta),
		})
	}

	for _, pr := range parans {
		pe := ParanExport{
			BodyA:        pr.Query.BodyA.String(),
			AngleA:       pr.Query.AngleA.String(),
			BodyB:        pr.Query.BodyB.String(),
			AngleB:       pr.Query.AngleB.String(),
			AllLatitudes: pr.Result.AllLatitudes,
			PoleLimited:  pr.Result.PoleLimited,
			Filtered:     pr.Result.Filtered,
		}
		if pr.Result.OK {
			lat := astro.RadToDeg(pr.Result.Latitude)
			pe.LatitudeDeg = &lat
			pe.ResidualDeg = astro.RadToDeg(pr.Result.Residual)
		} else if !pr.Result.AllLatitudes {
			pe.Reason = pr.Result.Reason.String()
		}
		export.Parans = append(export.Parans, pe)
	}

	for _, ln := range chartLines {
		export.Lines = append(export.Lines, exportLine(ln))
	}

	return export
}

func exportLine(ln Line) LineExport {
	le := LineExport{
		Body:  ln.Body.String(),
		Angle: ln.Kind.String(),
	}
	if ln.HasAspect {
		le.Aspect = lines.AspectName(ln.Aspect)
		le.AspectDeg = astro.RadToDeg(ln.Aspect)
	}

	switch ln.Locus.Kind {
	case lines.KindMeridian:
		le.Kind = "meridian"
		le.LongitudeDeg = astro.RadToDeg(ln.Locus.Longitude)
	case lines.KindCurve:
		le.Kind = "curve"
		for _, seg := range ln.Locus.Segments {
			out := make([][2]float64, len(seg))
			for i, p := range seg {
				out[i] = [2]float64{astro.RadToDeg(p.Lon), astro.RadToDeg(p.Lat)}
			}
			le.Segments = append(le.Segments, out)
		}
	}
	return le
}

// WriteJSON writes the snapshot as indented JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummaryTable writes a fixed-width paran table to the given writer.
func WriteSummaryTable(w io.Writer, s *SnapshotExport) {
	fmt.Fprintf(w, "Chart @ %s (GST %.4f°)\n", s.Time.Format(time.RFC3339), s.SiderealTimeDeg)
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if len(s.Parans) == 0 {
		fmt.Fprintln(w, "No parans computed")
		return
	}

	fmt.Fprintf(w, "%-10s %-5s %-10s %-5s %12s %14s %-8s\n",
		"Body A", "Angle", "Body B", "Angle", "Latitude", "Residual", "Note")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	solved := 0
	for _, p := range s.Parans {
		lat := "—"
		res := ""
		if p.LatitudeDeg != nil {
			lat = fmt.Sprintf("%+.4f°", *p.LatitudeDeg)
			res = fmt.Sprintf("%.2e°", p.ResidualDeg)
			solved++
		}
		note := p.Reason
		switch {
		case p.AllLatitudes:
			note = "all"
		case p.Filtered:
			note = "filtered"
		case p.PoleLimited:
			note = "pole"
		}
		fmt.Fprintf(w, "%-10s %-5s %-10s %-5s %12s %14s %-8s\n",
			truncateStr(p.BodyA, 10), p.AngleA,
			truncateStr(p.BodyB, 10), p.AngleB,
			lat, res, note)
	}

	fmt.Fprintf(w, "\nTotal: %d solved of %d queries\n", solved, len(s.Parans))
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}

// WorldMapConfig controls ASCII world map rendering.
type WorldMapConfig struct {
	Width  int
	Height int
}

// DefaultWorldMapConfig returns a map sized for an 80-column terminal.
func DefaultWorldMapConfig() WorldMapConfig {
	return WorldMapConfig{Width: 72, Height: 24}
}

// Line glyphs by angle kind.
const (
	glyphMC     = '│'
	glyphIC     = '┊'
	glyphRise   = '●'
	glyphSet    = '○'
	glyphAspect = '·'
)

func lineGlyph(ln Line) rune {
	if ln.HasAspect && ln.Aspect != 0 {
		return glyphAspect
	}
	switch ln.Kind {
	case astro.UpperCulm:
		return glyphMC
	case astro.LowerCulm:
		return glyphIC
	case astro.Rise:
		return glyphRise
	default:
		return glyphSet
	}
}

// WriteWorldMap plots line loci on an equirectangular ASCII grid with a
// box border and a per-body legend.
func WriteWorldMap(w io.Writer, chartLines []Line, cfg WorldMapConfig) {
	if cfg.Width < 10 {
		cfg.Width = DefaultWorldMapConfig().Width
	}
	if cfg.Height < 5 {
		cfg.Height = DefaultWorldMapConfig().Height
	}

	if len(chartLines) == 0 {
		fmt.Fprintln(w, "No lines to plot")
		return
	}

	grid := make([][]rune, cfg.Height)
	for i := range grid {
		grid[i] = make([]rune, cfg.Width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	// Equator and prime meridian reference marks
	eqRow := cfg.Height / 2
	pmCol := cfg.Width / 2
	for j := 0; j < cfg.Width; j++ {
		grid[eqRow][j] = '-'
	}
	for i := 0; i < cfg.Height; i++ {
		if grid[i][pmCol] == ' ' {
			grid[i][pmCol] = '¦'
		}
	}

	plot := func(lon, lat float64, glyph rune) {
		col := int((lon + math.Pi) / (2 * math.Pi) * float64(cfg.Width-1))
		row := int((math.Pi/2 - lat) / math.Pi * float64(cfg.Height-1))
		if col < 0 || col >= cfg.Width || row < 0 || row >= cfg.Height {
			return
		}
		grid[row][col] = glyph
	}

	for _, ln := range chartLines {
		glyph := lineGlyph(ln)
		switch ln.Locus.Kind {
		case lines.KindMeridian:
			for i := 0; i < cfg.Height; i++ {
				lat := math.Pi/2 - float64(i)/float64(cfg.Height-1)*math.Pi
				plot(ln.Locus.Longitude, lat, glyph)
			}
		case lines.KindCurve:
			for _, seg := range ln.Locus.Segments {
				for _, p := range seg {
					plot(p.Lon, p.Lat, glyph)
				}
			}
		}
	}

	// Border
	fmt.Fprintf(w, "┌%s┐\n", strings.Repeat("─", cfg.Width))
	for _, row := range grid {
		fmt.Fprintf(w, "│%s│\n", string(row))
	}
	fmt.Fprintf(w, "└%s┘\n", strings.Repeat("─", cfg.Width))

	// Legend: one entry per body, bodies in first-seen order
	seen := make(map[ephemeris.BodyID]bool)
	var legend []string
	for _, ln := range chartLines {
		if seen[ln.Body] {
			continue
		}
		seen[ln.Body] = true
		legend = append(legend, ln.Body.String())
	}
	fmt.Fprintf(w, "Bodies: %s\n", strings.Join(legend, ", "))
	fmt.Fprintf(w, "Lines: %c MC  %c IC  %c ASC  %c DSC  %c aspect\n",
		glyphMC, glyphIC, glyphRise, glyphSet, glyphAspect)
}
