package redact

import (
	"path"
	"regexp"
	"strings"

	"github.com/dshills/figcrit/internal/node"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for common secret types.
var secretPatterns = []*regexp.Regexp{
	// Generic API keys (long hex/base64 strings after common key patterns)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// AWS secret access keys
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	// Generic secrets/tokens/passwords in assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Private key blocks
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE KEY-----`),
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Slack tokens
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	// Figma personal access tokens
	regexp.MustCompile(`figd_[A-Za-z0-9_-]{20,}`),
	// Google API keys
	regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`),
	// OpenAI API keys
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
	// Generic long hex strings that look like secrets (32+ chars in an assignment)
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	result := text
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllString(result, placeholder)
	}
	return result
}

// ShouldRedactLayer checks if a layer name matches any of the glob patterns.
// Matching ignores case. Patterns are tried against the whole name and
// against each slash-separated part, so "*password*" also catches
// "Form/Password field".
func ShouldRedactLayer(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	candidates := append([]string{lower}, strings.Split(lower, "/")...)
	for _, pattern := range patterns {
		pattern = strings.ToLower(pattern)
		for _, c := range candidates {
			matched, err := path.Match(pattern, c)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}

// Tree scrubs the text carried by a projected tree in place: layer names and
// TEXT characters pass through Secrets, and TEXT nodes whose name matches one
// of layerPatterns lose their characters entirely. It returns the number of
// fields that changed.
func Tree(root *node.ProjectedNode, layerPatterns []string) int {
	changed := 0
	root.Walk(func(n *node.ProjectedNode) {
		if n.Name != nil {
			if s := Secrets(*n.Name); s != *n.Name {
				*n.Name = s
				changed++
			}
		}
		if n.Characters == nil {
			return
		}
		if n.Name != nil && ShouldRedactLayer(*n.Name, layerPatterns) {
			if *n.Characters != placeholder {
				*n.Characters = placeholder
				changed++
			}
			return
		}
		if s := Secrets(*n.Characters); s != *n.Characters {
			*n.Characters = s
			changed++
		}
	})
	return changed
}
