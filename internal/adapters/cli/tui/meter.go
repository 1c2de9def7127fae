package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// RecordingControl is the part of a recorder the meter drives
type RecordingControl interface {
	Pause() error
	Resume() error
	Stop() error
	Paused() bool
	Level() float64
	Elapsed() time.Duration
}

type meterTickMsg time.Time

const meterInterval = 100 * time.Millisecond

func meterTick() tea.Cmd {
	return tea.Tick(meterInterval, func(t time.Time) tea.Msg {
		return meterTickMsg(t)
	})
}

// MeterModel shows a live input level while recording
type MeterModel struct {
	rec       RecordingControl
	bar       progress.Model
	spin      spinner.Model
	level     float64
	elapsed   time.Duration
	err       error
	stopped   bool
	cancelled bool
}

// NewMeterModel creates a meter for rec
func NewMeterModel(rec RecordingControl) MeterModel {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40))
	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(selectedStyle))
	return MeterModel{rec: rec, bar: bar, spin: spin}
}

func (m MeterModel) Init() tea.Cmd {
	return tea.Batch(meterTick(), m.spin.Tick)
}

func (m MeterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case " ", "p":
			if m.rec.Paused() {
				m.err = m.rec.Resume()
			} else {
				m.err = m.rec.Pause()
			}
		case "enter", "s":
			m.err = m.rec.Stop()
			m.stopped = m.err == nil
			if m.stopped {
				return m, tea.Quit
			}
		case "q", "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
		return m, nil

	case meterTickMsg:
		m.level = m.rec.Level()
		m.elapsed = m.rec.Elapsed()
		return m, meterTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m MeterModel) View() string {
	var sb strings.Builder

	state := m.spin.View() + " Recording"
	if m.rec.Paused() {
		state = warnStyle.Render("⏸ Paused")
	}
	sb.WriteString(fmt.Sprintf("%s  %s\n\n", state, titleStyle.Render(FormatDuration(m.elapsed))))
	sb.WriteString(m.bar.ViewAs(m.level))
	sb.WriteString("\n\n")
	if m.err != nil {
		sb.WriteString(warnStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render("space=pause/resume, enter=stop and make notes, q=discard"))
	sb.WriteString("\n")
	return sb.String()
}

// Stopped reports whether the user finished the recording
func (m MeterModel) Stopped() bool {
	return m.stopped
}

// Cancelled reports whether the user discarded the recording
func (m MeterModel) Cancelled() bool {
	return m.cancelled
}

// RunMeter shows the meter until the recording is stopped or discarded.
// It returns true when the recording should be used.
func RunMeter(rec RecordingControl) (bool, error) {
	p := tea.NewProgram(NewMeterModel(rec))
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	return finalModel.(MeterModel).Stopped(), nil
}
