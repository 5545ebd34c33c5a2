// Package lang renders referee notices into human-readable text.
// Catalogs are YAML files mapping template keys to messages with
// positional placeholders ({1}, {2}, ...).
package lang

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/quadball/internal/config"
	"github.com/vovakirdan/quadball/internal/referee"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// KeyScore formats one standings row: name, score.
const KeyScore referee.TemplateKey = "score_message"

// ErrEmptyCatalog is returned for a catalog file without messages.
var ErrEmptyCatalog = errors.New("lang: catalog has no messages")

// Catalog is a loaded set of message templates.
type Catalog struct {
	Name     string                         `yaml:"name"`
	Messages map[referee.TemplateKey]string `yaml:"messages"`
}

// English returns the embedded English catalog.
func English() *Catalog {
	data, err := defaultFS.ReadFile("defaults/en.yaml")
	if err != nil {
		panic(fmt.Sprintf("lang: embedded catalog missing: %v", err))
	}
	c, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("lang: embedded catalog invalid: %v", err))
	}
	return c
}

// Load reads a catalog file and layers it over the English defaults, so a
// partial translation still renders every key. An empty path returns the
// defaults.
func Load(path string) (*Catalog, error) {
	base := English()
	if path == "" {
		return base, nil
	}

	path, err := config.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("lang: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lang: cannot read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lang: %s: %w", path, err)
	}

	for k, v := range c.Messages {
		base.Messages[k] = v
	}
	if c.Name != "" {
		base.Name = c.Name
	}
	return base, nil
}

// Parse decodes catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("cannot parse catalog: %w", err)
	}
	if len(c.Messages) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &c, nil
}

// Format fills key's template with subs. Unknown keys render as the key
// followed by its substitutions so nothing is silently lost.
func (c *Catalog) Format(key referee.TemplateKey, subs ...string) string {
	tmpl, ok := c.Messages[key]
	if !ok {
		if len(subs) == 0 {
			return string(key)
		}
		return string(key) + ": " + strings.Join(subs, ", ")
	}
	if len(subs) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, 2*len(subs))
	for i, s := range subs {
		pairs = append(pairs, "{"+strconv.Itoa(i+1)+"}", s)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Render formats a notice.
func (c *Catalog) Render(n referee.Notice) string {
	return c.Format(n.Key, n.Substitutions...)
}
