package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()

	assert.Equal(t, []string{"standard", "summary-500", "progression", "flashcards"}, c.IDs())

	for _, tmpl := range c.All() {
		assert.NotEmpty(t, tmpl.Name, tmpl.ID)
		assert.True(t, strings.HasSuffix(tmpl.Body, "Transcript:\n"), "%s body should end ready for the transcript", tmpl.ID)
	}

	std, err := c.Get(DefaultID)
	require.NoError(t, err)
	assert.Equal(t, "Standard Notes", std.Name)
}

func TestGetUnknown(t *testing.T) {
	_, err := Builtin().Get("haiku")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flashcards")
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	user := `
- id: flashcards
  name: Anki Cards
  body: "cards:\n"
- id: outline
  body: "outline:\n"
`
	require.NoError(t, os.WriteFile(path, []byte(user), 0644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"standard", "summary-500", "progression", "flashcards", "outline"}, c.IDs())

	cards, err := c.Get("flashcards")
	require.NoError(t, err)
	assert.Equal(t, "Anki Cards", cards.Name)
	assert.Equal(t, "cards:\n", cards.Body)

	outline, err := c.Get("outline")
	require.NoError(t, err)
	assert.Equal(t, "outline", outline.Name, "name defaults to id")
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Len(t, c.All(), 4)
}

func TestLoadRejectsTemplateWithoutID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: nameless\n  body: x\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAllReturnsCopy(t *testing.T) {
	c := Builtin()
	all := c.All()
	all[0].Body = "changed"

	std, _ := c.Get("standard")
	assert.NotEqual(t, "changed", std.Body)
}
