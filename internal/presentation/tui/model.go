package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/coroutines/pkg/script"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c084fc"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Width(12)
	fillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#818cf8"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#313244"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
)

// Ticker is the part of a timeline the model drives.
type Ticker interface {
	Name() string
	Tick()
	Len() int
}

// FrameMsg asks the model to run one tick.
type FrameMsg time.Time

// Model hosts a timeline inside a bubbletea program: every frame message
// ticks it once and the view draws the script variables as bars.
type Model struct {
	timeline Ticker
	vars     *script.Vars
	interval time.Duration
	frames   int
	peaks    map[string]float64
	done     bool
	quit     bool
}

// NewModel creates a model ticking tl fps times per second.
func NewModel(tl Ticker, vars *script.Vars, fps float64) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		timeline: tl,
		vars:     vars,
		interval: time.Duration(float64(time.Second) / fps),
		peaks:    make(map[string]float64),
	}
}

// Frames returns how many ticks have run.
func (m Model) Frames() int { return m.frames }

// Done reports whether the timeline ran out of steps.
func (m Model) Done() bool { return m.done }

// Interrupted reports whether the user quit before the timeline finished.
func (m Model) Interrupted() bool { return m.quit && !m.done }

func (m Model) Init() tea.Cmd {
	return m.nextFrame()
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}
	case FrameMsg:
		if m.done || m.quit {
			return m, nil
		}
		m.timeline.Tick()
		m.frames++
		m.trackPeaks()
		if m.timeline.Len() == 0 {
			m.done = true
			return m, tea.Quit
		}
		return m, m.nextFrame()
	}
	return m, nil
}

func (m Model) trackPeaks() {
	if m.vars == nil {
		return
	}
	for name, v := range m.vars.Snapshot() {
		if a := math.Abs(v); a > m.peaks[name] {
			m.peaks[name] = a
		}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.timeline.Name()))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  frame %d  live %d", m.frames, m.timeline.Len())))
	b.WriteString("\n\n")

	if m.vars != nil {
		snap := m.vars.Snapshot()
		for _, name := range m.vars.Names() {
			v := snap[name]
			b.WriteString(nameStyle.Render(name))
			b.WriteString(bar(v, m.peaks[name]))
			b.WriteString(fmt.Sprintf(" %8.3f\n", v))
		}
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString(doneStyle.Render("done"))
	} else {
		b.WriteString(dimStyle.Render("q to quit"))
	}
	b.WriteString("\n")
	return b.String()
}

// bar draws |v| relative to peak.
func bar(v, peak float64) string {
	filled := 0
	if peak > 0 {
		filled = int(math.Round(math.Abs(v) / peak * barWidth))
	}
	filled = min(max(filled, 0), barWidth)
	return fillStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", barWidth-filled))
}
