package critique

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default thresholds used when a check pack leaves them unset.
const (
	DefaultMinFontSize    = 14
	DefaultMinTouchTarget = 44
	DefaultMinContrast    = 4.5
)

// Checks represents a check pack loaded from --checks.
type Checks struct {
	Focus      []string        `yaml:"focus,omitempty" json:"focus,omitempty"`
	Required   []RequiredCheck `yaml:"required,omitempty" json:"required,omitempty"`
	Thresholds Thresholds      `yaml:"thresholds" json:"thresholds"`
}

// RequiredCheck is a team rule the critique must always evaluate.
type RequiredCheck struct {
	ID   string `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// Thresholds are the numeric limits the critique warns about.
type Thresholds struct {
	MinFontSize    float64 `yaml:"minFontSize" json:"minFontSize"`
	MinTouchTarget float64 `yaml:"minTouchTarget" json:"minTouchTarget"`
	MinContrast    float64 `yaml:"minContrast" json:"minContrast"`
}

// DefaultChecks returns the built-in check pack.
func DefaultChecks() *Checks {
	c := &Checks{}
	c.fillDefaults()
	return c
}

func (c *Checks) fillDefaults() {
	if c.Thresholds.MinFontSize <= 0 {
		c.Thresholds.MinFontSize = DefaultMinFontSize
	}
	if c.Thresholds.MinTouchTarget <= 0 {
		c.Thresholds.MinTouchTarget = DefaultMinTouchTarget
	}
	if c.Thresholds.MinContrast <= 0 {
		c.Thresholds.MinContrast = DefaultMinContrast
	}
}

// LoadChecks loads a check pack from disk. YAML and JSON are both accepted.
// An empty path returns the built-in pack.
func LoadChecks(path string) (*Checks, error) {
	if path == "" {
		return DefaultChecks(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checks file: %w", err)
	}

	var checks Checks
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&checks); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing checks file %s: %w", path, err)
	}
	for i, req := range checks.Required {
		if strings.TrimSpace(req.Text) == "" {
			return nil, fmt.Errorf("parsing checks file %s: required check %d has no text", path, i+1)
		}
		if req.ID == "" {
			checks.Required[i].ID = fmt.Sprintf("R%d", i+1)
		}
	}
	checks.fillDefaults()
	return &checks, nil
}

// promptSection returns additional prompt instructions derived from the pack.
func (c *Checks) promptSection(lang string) string {
	if c == nil {
		return ""
	}
	t := textsFor(lang)

	var b strings.Builder
	if len(c.Focus) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n", t.focus, strings.Join(c.Focus, ", "))
	}
	if len(c.Required) > 0 {
		fmt.Fprintf(&b, "\n%s\n", t.required)
		for _, req := range c.Required {
			fmt.Fprintf(&b, "- [%s] %s\n", req.ID, req.Text)
		}
	}
	return b.String()
}
