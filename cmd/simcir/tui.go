// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/db47h/simcir"
	"github.com/db47h/simcir/basicset"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1).
			MarginLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF"))

	hotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	coldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Press key.Binding
	Left  key.Binding
	Right key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Press: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("space", "press"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "turn left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "turn right"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Press, k.Left, k.Right, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// encoder knob step, in degrees.
const knobStep = 15

// refresh period of the display.
const refresh = 100 * time.Millisecond

type tickMsg time.Time

type releaseMsg struct{ sw *basicset.Switch }

func tickCmd() tea.Cmd {
	return tea.Tick(refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// a control is a device the user can operate.
type control struct {
	dev *simcir.Device
}

type model struct {
	c        *simcir.Circuit
	controls []control
	sinks    []*simcir.Device
	cursor   int
	lines    []string
	probes   []string
	help     help.Model
	keys     keyMap
}

func newModel(c *simcir.Circuit) model {
	m := model{c: c, help: help.New(), keys: keys}
	c.Do(func() {
		for _, d := range c.Devices() {
			switch d.Controller().(type) {
			case *basicset.Switch, *basicset.NumSrc, *basicset.Encoder, *basicset.Scope:
				m.controls = append(m.controls, control{d})
			}
			if len(d.Outputs()) == 0 {
				m.sinks = append(m.sinks, d)
			}
		}
	})
	m.snapshot()
	return m
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tickMsg:
		m.snapshot()
		return m, tickCmd()

	case releaseMsg:
		m.c.Do(msg.sw.Release)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.controls)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Press):
			return m, m.press()
		case key.Matches(msg, m.keys.Left):
			m.turn(-knobStep)
		case key.Matches(msg, m.keys.Right):
			m.turn(knobStep)
		}
	}
	return m, nil
}

func (m *model) selected() *simcir.Device {
	if m.cursor >= len(m.controls) {
		return nil
	}
	return m.controls[m.cursor].dev
}

// press operates the selected device. Push buttons are released on the next
// refresh.
func (m *model) press() tea.Cmd {
	d := m.selected()
	if d == nil {
		return nil
	}
	var cmd tea.Cmd
	m.c.Do(func() {
		switch ctl := d.Controller().(type) {
		case *basicset.Switch:
			ctl.Press()
			if d.Type() != "Toggle" {
				cmd = tea.Tick(refresh, func(time.Time) tea.Msg { return releaseMsg{ctl} })
			}
		case *basicset.NumSrc:
			ctl.Press()
		case *basicset.Scope:
			ctl.TogglePlaying()
		}
	})
	return cmd
}

func (m *model) turn(delta float64) {
	d := m.selected()
	if d == nil {
		return
	}
	m.c.Do(func() {
		switch ctl := d.Controller().(type) {
		case *basicset.Encoder:
			ctl.SetAngle(ctl.Angle() + delta)
		case *basicset.Scope:
			if delta > 0 {
				ctl.NextRange()
			}
		}
	})
}

// snapshot reads the state of all displayed devices.
func (m *model) snapshot() {
	m.c.Do(func() {
		m.lines = m.lines[:0]
		for _, ct := range m.controls {
			m.lines = append(m.lines, describe(ct.dev))
		}
		m.probes = m.probes[:0]
		for _, d := range m.sinks {
			m.probes = append(m.probes, describe(d))
		}
	})
}

func level(v simcir.Value) string {
	if v.IsHot() {
		return hotStyle.Render(v.String())
	}
	return coldStyle.Render(v.String())
}

func describe(d *simcir.Device) string {
	var state string
	switch ctl := d.Controller().(type) {
	case *basicset.Switch:
		state = fmt.Sprintf("on=%v", ctl.On())
	case *basicset.NumSrc:
		state = fmt.Sprintf("on=%v", ctl.On())
	case *basicset.Encoder:
		state = fmt.Sprintf("angle=%.0f value=%d", ctl.Angle(), ctl.Value())
	case *basicset.Scope:
		state = fmt.Sprintf("playing=%v range=%s", ctl.Playing(), ctl.TimeRange())
	case *basicset.Lamp:
		if ctl.On() {
			state = hotStyle.Render("●")
		} else {
			state = coldStyle.Render("○")
		}
	case *basicset.SegmentDisplay:
		state = fmt.Sprintf("segments=%q", ctl.Pattern())
	case *basicset.Hex7Seg:
		state = fmt.Sprintf("value=%X", ctl.Value())
	}
	var ins []string
	for _, in := range d.Inputs() {
		ins = append(ins, level(in.Value()))
	}
	var outs []string
	for _, o := range d.Outputs() {
		outs = append(outs, level(o.Value()))
	}
	return fmt.Sprintf("%-8s %-12s %-30s in[%s] out[%s]", d.ID(), d.Label(), state, strings.Join(ins, " "), strings.Join(outs, " "))
}

func (m model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("simcir %s", m.c.ID())))
	s.WriteString("\n\n")

	var b strings.Builder
	b.WriteString("Controls\n")
	if len(m.lines) == 0 {
		b.WriteString(coldStyle.Render("(none)"))
	}
	for i, l := range m.lines {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> ") + l)
		} else {
			b.WriteString("  " + l)
		}
		if i < len(m.lines)-1 {
			b.WriteByte('\n')
		}
	}
	s.WriteString(boxStyle.Render(b.String()))
	s.WriteString("\n")

	b.Reset()
	b.WriteString("Probes\n")
	if len(m.probes) == 0 {
		b.WriteString(coldStyle.Render("(none)"))
	}
	b.WriteString(strings.Join(m.probes, "\n"))
	s.WriteString(boxStyle.Render(b.String()))

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}
