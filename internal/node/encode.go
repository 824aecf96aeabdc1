package node

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Tree encodings accepted by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode renders a projected tree as indented JSON or YAML. An empty format
// means JSON.
func Encode(p *ProjectedNode, format string) ([]byte, error) {
	switch format {
	case "", FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("encoding tree as JSON: %w", err)
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("encoding tree as YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding tree as YAML: %w", err)
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	default:
		return nil, fmt.Errorf("unsupported tree format: %s", format)
	}
}
