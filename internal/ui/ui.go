// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/astromap/internal/paran"
	"github.com/litescript/astromap/internal/state"
	"github.com/litescript/astromap/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewMap ViewMode = iota
	ViewParans
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// DataUpdateMsg signals a recomputed chart is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a recompute error.
	ErrorMsg struct {
		Error error
	}
)

const tickInterval = time.Second

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager

	viewMode    ViewMode
	width       int
	height      int
	ready       bool
	recomputing bool
	statusMsg   string

	mapView MapViewModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager) Model {
	return Model{
		state:    stateMgr,
		viewMode: ViewMap,
		mapView:  NewMapViewModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), recomputeCmd(m.state))
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// recomputeCmd runs a chart recompute off the UI goroutine.
func recomputeCmd(s *state.Manager) tea.Cmd {
	return func() tea.Msg {
		snap, err := s.Recompute(context.Background())
		if err != nil && snap.Batch == nil {
			return ErrorMsg{Error: err}
		}
		return DataUpdateMsg{Snapshot: snap}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "w":
			m.viewMode = ViewMap
		case "2", "p":
			m.viewMode = ViewParans
		case "tab":
			m.viewMode = (m.viewMode + 1) % 2

		case "h", "left":
			cmds = append(cmds, m.stepTime(-time.Hour))
		case "l", "right":
			cmds = append(cmds, m.stepTime(time.Hour))
		case "j", "down":
			cmds = append(cmds, m.stepTime(-24*time.Hour))
		case "k", "up":
			cmds = append(cmds, m.stepTime(24*time.Hour))
		case "n":
			m.state.SetTime(time.Now())
			m.recomputing = true
			cmds = append(cmds, recomputeCmd(m.state))

		case "v":
			m.state.SetVisibility(nextVisibility(m.state.Options().Visibility))
			m.recomputing = true
			cmds = append(cmds, recomputeCmd(m.state))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		// Header takes 3 lines, footer 2
		m.mapView = m.mapView.SetSize(msg.Width, msg.Height-5)

	case TickMsg:
		cmds = append(cmds, tickCmd())

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.recomputing = false
		m.statusMsg = ""
		m.mapView = m.mapView.UpdateData(msg.Snapshot)

	case ErrorMsg:
		m.recomputing = false
		m.statusMsg = fmt.Sprintf("compute failed: %v", msg.Error)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) stepTime(d time.Duration) tea.Cmd {
	m.state.StepTime(d)
	m.recomputing = true
	return recomputeCmd(m.state)
}

func nextVisibility(mode paran.VisibilityMode) paran.VisibilityMode {
	switch mode {
	case paran.VisibilityAll:
		return paran.VisibilityBoth
	case paran.VisibilityBoth:
		return paran.VisibilityMeridianOnly
	default:
		return paran.VisibilityAll
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewMap:
		content = m.mapView.View()
	case ViewParans:
		content = m.renderParans()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

func (m Model) renderHeader() string {
	title := titleStyle.Render("astromap") + mutedStyle.Render(" v"+version.Version)

	when := m.state.Time().Format("2006-01-02 15:04 UTC")
	line := fmt.Sprintf("%s  %s  visibility: %s", title, labelStyle.Render(when),
		m.state.Options().Visibility)
	if m.recomputing {
		line += mutedStyle.Render("  computing…")
	}
	if m.statusMsg != "" {
		line += "  " + statusStyle.Render(m.statusMsg)
	}
	return line + "\n"
}

func (m Model) renderFooter() string {
	return mutedStyle.Render(
		"[tab] view  [h/l] ±hour  [j/k] ±day  [n] now  [v] visibility  [q] quit")
}

// renderParans lists solved parans, most southern first.
func (m Model) renderParans() string {
	if m.snapshot.Batch == nil {
		return mutedStyle.Render("No chart yet")
	}

	var b strings.Builder
	solved := 0
	for _, pr := range m.snapshot.Parans {
		if !pr.Result.OK || pr.Result.Filtered {
			continue
		}
		solved++
		fmt.Fprintf(&b, "%-10s %-4s × %-10s %-4s  %+9.4f°\n",
			pr.Query.BodyA, pr.Query.AngleA,
			pr.Query.BodyB, pr.Query.AngleB,
			degrees(pr.Result.Latitude))
	}
	if solved == 0 {
		return mutedStyle.Render("No parans at this instant")
	}
	header := labelStyle.Render(fmt.Sprintf("%d parans\n", solved))
	return header + b.String()
}
