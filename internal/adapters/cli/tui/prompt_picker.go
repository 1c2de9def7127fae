package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devbush/lecturenotes/internal/domain"
)

// PromptPickerModel is the bubbletea model for choosing a prompt template
type PromptPickerModel struct {
	templates []domain.PromptTemplate
	cursor    int
	chosen    int
	done      bool
}

// NewPromptPickerModel creates a picker with the cursor on currentID
func NewPromptPickerModel(templates []domain.PromptTemplate, currentID string) PromptPickerModel {
	m := PromptPickerModel{templates: templates, chosen: -1}
	for i, t := range templates {
		if t.ID == currentID {
			m.cursor = i
		}
	}
	return m
}

func (m PromptPickerModel) Init() tea.Cmd {
	return nil
}

func (m PromptPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.templates)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = m.cursor
			m.done = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PromptPickerModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Choose a note style:"))
	sb.WriteString("\n\n")

	for i, t := range m.templates {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s%-28s", cursor, t.Name)))
		sb.WriteString(dimStyle.Render(Truncate(firstLine(t.Body), 50)))
		sb.WriteString("\n")
	}

	sb.WriteString("\nenter=choose, q=cancel\n")
	return sb.String()
}

// Chosen returns the selected template, or false when cancelled
func (m PromptPickerModel) Chosen() (domain.PromptTemplate, bool) {
	if m.chosen < 0 || m.chosen >= len(m.templates) {
		return domain.PromptTemplate{}, false
	}
	return m.templates[m.chosen], true
}

// RunPromptPicker displays the picker and returns the chosen template
func RunPromptPicker(templates []domain.PromptTemplate, currentID string) (domain.PromptTemplate, bool, error) {
	if len(templates) == 0 {
		return domain.PromptTemplate{}, false, nil
	}

	p := tea.NewProgram(NewPromptPickerModel(templates, currentID))
	finalModel, err := p.Run()
	if err != nil {
		return domain.PromptTemplate{}, false, err
	}

	t, ok := finalModel.(PromptPickerModel).Chosen()
	return t, ok, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
