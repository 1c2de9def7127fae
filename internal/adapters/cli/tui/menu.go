package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// MenuOption is one menu entry. Disabled entries are shown with their hint but cannot be chosen.
type MenuOption struct {
	Label    string
	Value    string
	Hint     string
	Disabled bool
}

// MenuModel is a single-choice menu
type MenuModel struct {
	title    string
	options  []MenuOption
	cursor   int
	selected string
}

// NewMenuModel creates a menu with the cursor on the first enabled option
func NewMenuModel(title string, options []MenuOption) MenuModel {
	m := MenuModel{title: title, options: options}
	if len(options) > 0 && options[0].Disabled {
		m.cursor = m.next(0, 1)
	}
	return m
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

// next returns the nearest enabled index from the cursor in direction dir, wrapping around
func (m MenuModel) next(from, dir int) int {
	n := len(m.options)
	if n == 0 {
		return from
	}
	for i := 1; i <= n; i++ {
		idx := ((from+dir*i)%n + n) % n
		if !m.options[idx].Disabled {
			return idx
		}
	}
	return from
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := keyMsg.String(); k {
	case "up", "k":
		m.cursor = m.next(m.cursor, -1)
	case "down", "j", "tab":
		m.cursor = m.next(m.cursor, 1)
	case "enter":
		if len(m.options) == 0 {
			return m, tea.Quit
		}
		if opt := m.options[m.cursor]; !opt.Disabled {
			m.selected = opt.Value
			return m, tea.Quit
		}
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	default:
		// Digits jump straight to an entry.
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			idx := int(k[0] - '1')
			if idx < len(m.options) && !m.options[idx].Disabled {
				m.cursor = idx
				m.selected = m.options[idx].Value
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m MenuModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(m.title))

	for i, opt := range m.options {
		prefix := "  "
		style := normalStyle
		switch {
		case opt.Disabled:
			style = dimStyle
		case i == m.cursor:
			prefix = "> "
			style = selectedStyle
		}

		label := opt.Label
		if i < 9 {
			label = fmt.Sprintf("%d. %s", i+1, label)
		}
		b.WriteString(prefix + style.Render(label))
		if opt.Hint != "" {
			b.WriteString("  " + dimStyle.Render(opt.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("\n↑/↓ move · enter or 1-9 select · q quit") + "\n")
	return b.String()
}

// Selected returns the chosen value, or "" if the menu was cancelled
func (m MenuModel) Selected() string {
	return m.selected
}

// RunMenu displays the menu and returns the selection, or "" when cancelled
func RunMenu(title string, options []MenuOption) (string, error) {
	finalModel, err := tea.NewProgram(NewMenuModel(title, options)).Run()
	if err != nil {
		return "", err
	}
	return finalModel.(MenuModel).Selected(), nil
}
