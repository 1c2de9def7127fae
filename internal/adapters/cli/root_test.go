package cli

import "testing"

func TestInputKind(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"notes.txt", kindDocument},
		{"Lecture.MD", kindDocument},
		{"slides.pdf", kindDocument},
		{"talk.m4a", kindAudio},
		{"recording.WAV", kindAudio},
		{"https://example.com/watch?v=1", kindURL},
		{"dQw4w9WgXcQ", kindURL},
	}

	for _, tt := range tests {
		if got := inputKind(tt.input); got != tt.want {
			t.Errorf("inputKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewRootCmdRegistersSubcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"record", "import", "url", "notes", "estimate", "prompts", "key", "cache", "deps"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
