// Command astromap computes and visualizes astrocartography charts:
// angular lines, aspect lines, and paran latitudes for a chosen instant.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/chart"
	"github.com/litescript/astromap/internal/ephemeris"
	"github.com/litescript/astromap/internal/lines"
	"github.com/litescript/astromap/internal/paran"
	"github.com/litescript/astromap/internal/state"
	"github.com/litescript/astromap/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	worldMapMode  bool
	jsonPath      string
	watchInterval time.Duration
)

const (
	minGridStep = 0.25 // degrees
	maxGridStep = 1.0
)

func main() {
	timeFlag := flag.String("time", "now", "Chart instant (RFC3339, or \"now\")")
	bodiesFlag := flag.String("bodies", "", "Comma-separated bodies (default: Sun..Saturn)")
	aspectFlag := flag.String("aspect", "", "Comma-separated aspect angles (names or degrees)")
	orbFlag := flag.Float64("orb", 1.0, "Aspect orb tolerance, degrees")
	stepFlag := flag.Float64("step", 0.5, "Line sampling grid step, degrees (0.25-1.0)")
	visFlag := flag.String("visibility", "all", "Paran filter (all, both_visible, meridian_visible_only)")
	workersFlag := flag.Int("workers", 0, "Paran solver workers (0 = all CPUs)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&summaryMode, "summary", false, "Print paran table instead of TUI")
	flag.BoolVar(&worldMapMode, "map", false, "Print ASCII world map instead of TUI")
	flag.StringVar(&jsonPath, "json", "", "Export JSON chart to file (use - for stdout)")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g., 1m)")
	flag.Parse()

	// Set up logging
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "astromap"})
	if lvl, err := log.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(lvl)
	}

	// Clamp grid step
	if *stepFlag < minGridStep {
		*stepFlag = minGridStep
	} else if *stepFlag > maxGridStep {
		*stepFlag = maxGridStep
	}

	instant, followNow, err := parseTime(*timeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -time: %v\n", err)
		os.Exit(2)
	}

	opts := state.DefaultOptions()
	if *bodiesFlag != "" {
		opts.Bodies, err = parseBodies(*bodiesFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -bodies: %v\n", err)
			os.Exit(2)
		}
	}
	if *aspectFlag != "" {
		opts.Aspects, err = parseAspects(*aspectFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -aspect: %v\n", err)
			os.Exit(2)
		}
	}
	opts.Grid.LonStep = astro.DegToRad(*stepFlag)
	opts.Grid.LatStep = astro.DegToRad(*stepFlag)
	opts.Grid.Orb = astro.DegToRad(*orbFlag)
	opts.Visibility = paran.ParseVisibilityMode(*visFlag)
	opts.Workers = *workersFlag

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	stateMgr := state.NewManager(ephemeris.NewAnalyticProvider(), instant, opts, logger)

	// Headless mode: no TUI. A non-terminal stdout also forces the
	// summary table rather than a broken TUI.
	headless := summaryMode || worldMapMode || jsonPath != ""
	if !headless && !term.IsTerminal(int(os.Stdout.Fd())) {
		summaryMode = true
		headless = true
	}
	if headless {
		runHeadless(ctx, stateMgr, followNow)
		return
	}

	model := ui.New(stateMgr)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(ctx context.Context, stateMgr *state.Manager, followNow bool) {
	outputOnce := func() error {
		if followNow {
			stateMgr.SetTime(time.Now())
		}
		snap, err := stateMgr.Recompute(ctx)
		if err != nil {
			return err
		}

		export := chart.ExportSnapshot(snap.Batch, snap.Parans, snap.Lines, time.Now())

		if jsonPath != "" {
			if jsonPath == "-" {
				if err := export.WriteJSON(os.Stdout); err != nil {
					return fmt.Errorf("write JSON to stdout: %w", err)
				}
			} else {
				f, err := os.Create(jsonPath)
				if err != nil {
					return fmt.Errorf("create chart file: %w", err)
				}
				defer f.Close()
				if err := export.WriteJSON(f); err != nil {
					return fmt.Errorf("write JSON to file: %w", err)
				}
			}
		}

		if summaryMode {
			chart.WriteSummaryTable(os.Stdout, export)
		}

		if worldMapMode {
			fmt.Println()
			chart.WriteWorldMap(os.Stdout, snap.Lines, chart.DefaultWorldMapConfig())
		}

		return nil
	}

	// Single run
	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Watch mode: repeat at interval
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Println()
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// parseTime accepts "now" or an RFC3339 timestamp. followNow reports
// whether watch iterations should track the wall clock.
func parseTime(s string) (time.Time, bool, error) {
	if strings.EqualFold(s, "now") {
		return time.Now(), true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, false, nil
}

func parseBodies(s string) ([]ephemeris.BodyID, error) {
	var ids []ephemeris.BodyID
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, ok := ephemeris.ParseBody(name)
		if !ok {
			return nil, fmt.Errorf("unknown body %q", name)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no bodies named")
	}
	return ids, nil
}

var aspectNames = map[string]float64{
	"conjunction": lines.AspectConjunction,
	"sextile":     lines.AspectSextile,
	"square":      lines.AspectSquare,
	"trine":       lines.AspectTrine,
	"opposition":  lines.AspectOpposition,
}

// parseAspects accepts aspect names or angles in degrees.
func parseAspects(s string) ([]float64, error) {
	var out []float64
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(strings.ToLower(tok))
		if tok == "" {
			continue
		}
		if theta, ok := aspectNames[tok]; ok {
			out = append(out, theta)
			continue
		}
		deg, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("unknown aspect %q", tok)
		}
		if deg < 0 || deg > 180 {
			return nil, fmt.Errorf("aspect %v° outside 0-180", deg)
		}
		out = append(out, astro.DegToRad(deg))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no aspects named")
	}
	return out, nil
}
