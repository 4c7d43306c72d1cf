package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	lldbridge "github.com/wippyai/lld-bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	flavorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectFlavor modelState = iota
	stateInputArgs
	stateShowResult
)

type flavorEntry struct {
	flavor     lldbridge.Flavor
	driverName string
	configured bool
}

type interactiveModel struct {
	bridge      *lldbridge.Bridge
	flavors     []flavorEntry
	argInput    textinput.Model
	selected    int
	state       modelState
	running     bool
	success     bool
	diagnostics string
}

type linkDoneMsg struct {
	success     bool
	diagnostics string
}

func newInteractiveModel(bridge *lldbridge.Bridge, setups []driverSetup) *interactiveModel {
	configured := make(map[lldbridge.Flavor]string, len(setups))
	for _, s := range setups {
		configured[s.flavor] = s.config.Name
	}

	var flavors []flavorEntry
	for _, f := range lldbridge.Flavors() {
		name, ok := configured[f]
		flavors = append(flavors, flavorEntry{flavor: f, driverName: name, configured: ok})
	}

	ti := textinput.New()
	ti.Placeholder = "-o out.so a.o b.o"
	ti.Prompt = "args: "
	ti.Width = 60

	return &interactiveModel{
		bridge:   bridge,
		flavors:  flavors,
		argInput: ti,
		state:    stateSelectFlavor,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

// runLink executes the link off the update loop. The Result's
// diagnostic buffer is copied out and released here; only plain
// strings travel through bubbletea messages.
func (m *interactiveModel) runLink() tea.Msg {
	flavor := m.flavors[m.selected].flavor
	args := strings.Fields(m.argInput.Value())

	res := m.bridge.Link(flavor, args)
	defer res.Release()

	return linkDoneMsg{
		success:     res.Success,
		diagnostics: res.Diagnostics.String(),
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFlavor && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFlavor && m.selected < len(m.flavors)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFlavor:
				if !m.flavors[m.selected].configured {
					break
				}
				m.state = stateInputArgs
				m.argInput.Focus()

			case stateInputArgs:
				if !m.running {
					m.running = true
					m.argInput.Blur()
					return m, m.runLink
				}

			case stateShowResult:
				m.state = stateSelectFlavor
				m.diagnostics = ""
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFlavor
				m.argInput.Blur()
			case stateShowResult:
				m.state = stateSelectFlavor
				m.diagnostics = ""
			}
		}

	case linkDoneMsg:
		m.running = false
		m.success = msg.success
		m.diagnostics = msg.diagnostics
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmd tea.Cmd
		m.argInput, cmd = m.argInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("linkrun"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFlavor:
		b.WriteString("Select a flavor to link:\n\n")
		for i, e := range m.flavors {
			line := m.formatFlavor(e)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter link • q quit"))

	case stateInputArgs:
		e := m.flavors[m.selected]
		b.WriteString(fmt.Sprintf("Linking with %s\n\n", flavorStyle.Render(e.flavor.String())))
		b.WriteString(m.argInput.View())
		b.WriteString("\n\n")
		if m.running {
			b.WriteString(dimStyle.Render("linking..."))
		} else {
			b.WriteString(helpStyle.Render("enter link • esc back"))
		}

	case stateShowResult:
		e := m.flavors[m.selected]
		b.WriteString(fmt.Sprintf("Result for %s:\n\n", flavorStyle.Render(e.flavor.String())))
		if m.success {
			b.WriteString(successStyle.Render("link succeeded"))
		} else {
			b.WriteString(errorStyle.Render("link failed"))
		}
		if m.diagnostics != "" {
			b.WriteString("\n\n")
			if m.success {
				b.WriteString(m.diagnostics)
			} else {
				b.WriteString(errorStyle.Render(m.diagnostics))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatFlavor(e flavorEntry) string {
	if !e.configured {
		return dimStyle.Render(e.flavor.String() + " (no driver configured)")
	}
	return flavorStyle.Render(e.flavor.String()) + " " + dimStyle.Render(e.driverName)
}

func runInteractive(bridge *lldbridge.Bridge, setups []driverSetup) error {
	p := tea.NewProgram(newInteractiveModel(bridge, setups), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
