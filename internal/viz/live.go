package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"chaoslab/internal/dynamo"
	"chaoslab/internal/section"
)

const historyCapacity = 400

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// LiveModel animates a trajectory in the terminal: a rolling graph of
// one coordinate with a running plane-crossing counter.
type LiveModel struct {
	name    string
	sys     dynamo.System
	stepper dynamo.Stepper
	plane   section.Plane

	state   dynamo.State
	initial dynamo.State
	t, dt   float64
	coord   int

	history   []float64
	crossings int
	paused    bool
	stepsPer  int
}

func NewLiveModel(name string, sys dynamo.System, stepper dynamo.Stepper, x0 dynamo.State, plane section.Plane, dt float64, coord int) LiveModel {
	return LiveModel{
		name:     name,
		sys:      sys,
		stepper:  stepper,
		plane:    plane,
		state:    x0.Clone(),
		initial:  x0.Clone(),
		t:        0,
		dt:       dt,
		coord:    coord,
		stepsPer: 8,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.state = m.initial.Clone()
			m.t = 0
			m.history = nil
			m.crossings = 0
		}
		return m, nil

	case TickMsg:
		if !m.paused {
			for i := 0; i < m.stepsPer; i++ {
				prev := m.state[m.plane.Coord] - m.plane.Threshold
				next := m.stepper.Step(m.sys, m.state, m.t, m.dt)
				if !next.IsValid() {
					m.paused = true
					break
				}
				m.state = next
				m.t += m.dt

				cur := m.state[m.plane.Coord] - m.plane.Threshold
				if prev <= 0 && cur > 0 {
					m.crossings++
				}
			}
			m.history = append(m.history, m.state[m.coord])
			if len(m.history) > historyCapacity {
				m.history = m.history[len(m.history)-historyCapacity:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m LiveModel) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("chaoslab live: %s", m.name)))
	sb.WriteRune('\n')

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("coordinate x%d", m.coord)),
		)
		sb.WriteString(graphStyle.Render(graph))
		sb.WriteRune('\n')
	}

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(valueStyle.Render(value))
		sb.WriteRune('\n')
	}
	row("t", fmt.Sprintf("%.2f", m.t))
	row("state", fmt.Sprintf("%.4v", []float64(m.state)))
	row("crossings", fmt.Sprintf("%d", m.crossings))
	if m.paused {
		row("status", "paused")
	}

	sb.WriteString(helpStyle.Render("space pause · r reset · q quit"))
	sb.WriteRune('\n')
	return sb.String()
}
