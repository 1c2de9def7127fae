package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devbush/lecturenotes/internal/domain"
)

//go:embed presets.yaml
var presetsYAML []byte

// DefaultID is the preset used when none is configured
const DefaultID = "standard"

// Catalog is an ordered set of prompt templates
type Catalog struct {
	templates []domain.PromptTemplate
}

// Builtin returns the bundled presets
func Builtin() *Catalog {
	templates, err := parse(presetsYAML)
	if err != nil {
		panic(fmt.Sprintf("bundled prompt presets are invalid: %v", err))
	}
	return &Catalog{templates: templates}
}

// Load returns the bundled presets merged with a user file at path.
// User templates replace presets with the same id and are otherwise appended.
// A missing file is not an error.
func Load(path string) (*Catalog, error) {
	c := Builtin()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}

	user, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, t := range user {
		c.put(t)
	}
	return c, nil
}

func parse(data []byte) ([]domain.PromptTemplate, error) {
	var templates []domain.PromptTemplate
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, err
	}
	for i, t := range templates {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("template %d has no id", i+1)
		}
		if t.Name == "" {
			templates[i].Name = t.ID
		}
	}
	return templates, nil
}

func (c *Catalog) put(t domain.PromptTemplate) {
	for i := range c.templates {
		if c.templates[i].ID == t.ID {
			c.templates[i] = t
			return
		}
	}
	c.templates = append(c.templates, t)
}

// All returns the templates in display order
func (c *Catalog) All() []domain.PromptTemplate {
	return append([]domain.PromptTemplate(nil), c.templates...)
}

// Get looks up a template by id
func (c *Catalog) Get(id string) (domain.PromptTemplate, error) {
	for _, t := range c.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.PromptTemplate{}, fmt.Errorf("unknown prompt %q (available: %s)", id, strings.Join(c.IDs(), ", "))
}

// IDs returns the template ids in display order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.templates))
	for i, t := range c.templates {
		ids[i] = t.ID
	}
	return ids
}
