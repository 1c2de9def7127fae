package domain

import (
	"regexp"
	"strings"
)

// PromptTemplate is an instruction block prepended to the transcript
type PromptTemplate struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Body string `yaml:"body" json:"body"`
}

// UserMessage joins the prompt body and transcript into the request text
func (p PromptTemplate) UserMessage(transcript string) string {
	return p.Body + transcript
}

// NoteResult is a successful note generation with usage accounting
type NoteResult struct {
	Content       string  `json:"content"`
	Model         string  `json:"model"`
	TokensUsed    int     `json:"tokens_used"`
	EstimatedCost float64 `json:"estimated_cost"`
}

const (
	// FallbackBaseName is used when notes yield no usable filename
	FallbackBaseName = "lecture_notes"

	baseNameWords  = 6
	baseNameMaxLen = 50
)

var (
	markdownMarkers  = strings.NewReplacer("#", "", "*", "", "`", "")
	illegalFileChars = regexp.MustCompile(`[:/\\?%*|"<>]`)
)

// DeriveBaseName builds the shared artifact name from the first words of the notes
func DeriveBaseName(notes string) string {
	words := strings.Fields(markdownMarkers.Replace(notes))
	if len(words) > baseNameWords {
		words = words[:baseNameWords]
	}

	name := illegalFileChars.ReplaceAllString(strings.Join(words, "_"), "")
	// A leading dot hides the files and a trailing one doubles up with the extension.
	name = strings.Trim(name, "._")

	runes := []rune(name)
	if len(runes) > baseNameMaxLen {
		name = strings.TrimRight(string(runes[:baseNameMaxLen]), "._")
	}

	if name == "" {
		return FallbackBaseName
	}
	return name
}
