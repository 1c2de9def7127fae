package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SecretInputModel reads one masked line
type SecretInputModel struct {
	prompt    string
	input     textinput.Model
	submitted bool
}

// NewSecretInputModel creates a masked input with the given prompt
func NewSecretInputModel(prompt, placeholder string) SecretInputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Width = 48
	ti.Focus()
	return SecretInputModel{prompt: prompt, input: ti}
}

func (m SecretInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SecretInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m SecretInputModel) View() string {
	return titleStyle.Render(m.prompt) + "\n\n" + m.input.View() + "\n\n" + dimStyle.Render("enter=save, esc=cancel") + "\n"
}

// Value returns the trimmed input and whether it was submitted
func (m SecretInputModel) Value() (string, bool) {
	return strings.TrimSpace(m.input.Value()), m.submitted
}

// RunSecretInput prompts for a masked value
func RunSecretInput(prompt, placeholder string) (string, bool, error) {
	p := tea.NewProgram(NewSecretInputModel(prompt, placeholder))
	finalModel, err := p.Run()
	if err != nil {
		return "", false, err
	}
	v, ok := finalModel.(SecretInputModel).Value()
	return v, ok, nil
}
