package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressDisplay_Steps(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressDisplayTo(&buf, []string{"Acquiring audio", "Transcribing", "Generating notes"}, false)

	p.StartStep(0)
	p.StartStep(1)
	p.UpdatePercent(40)
	p.UpdatePercent(60)
	p.UpdateDetail("Today we cover graphs.")

	steps := p.Steps()
	if steps[0].Status != StepComplete {
		t.Errorf("step 0 = %v, want complete after the next step started", steps[0].Status)
	}
	if steps[1].Status != StepRunning || steps[1].Percent != 60 {
		t.Errorf("step 1 = %+v", steps[1])
	}
	if steps[2].Percent != -1 {
		t.Errorf("pending step percent = %d", steps[2].Percent)
	}

	p.FailCurrent("engine crashed")
	steps = p.Steps()
	if steps[1].Status != StepError || steps[1].Error != "engine crashed" {
		t.Errorf("step 1 after fail = %+v", steps[1])
	}
	if !strings.Contains(buf.String(), "✗ engine crashed") {
		t.Errorf("output missing failure:\n%s", buf.String())
	}
}

func TestProgressDisplay_Quiet(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressDisplayTo(&buf, []string{"Transcribing"}, true)

	p.StartStep(0)
	p.UpdatePercent(10)
	p.CompleteStep(0)
	p.Complete([][2]string{{"Notes", "/tmp/x_notes.md"}})

	if buf.Len() != 0 {
		t.Errorf("quiet display wrote %q", buf.String())
	}
}

func TestProgressDisplay_Complete(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressDisplayTo(&buf, []string{"Saving"}, false)

	p.Complete([][2]string{{"Notes", "/cache/a_notes.md"}, {"Audio", "/cache/a.wav"}})

	out := buf.String()
	if strings.Index(out, "Notes") > strings.Index(out, "Audio") {
		t.Errorf("outputs printed out of order:\n%s", out)
	}
}
