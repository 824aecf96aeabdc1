package critique

import (
	"time"

	"github.com/dshills/figcrit/internal/node"
)

// Source identifies the design that was critiqued.
type Source struct {
	FileKey string `json:"fileKey,omitempty"`
	NodeID  string `json:"nodeId,omitempty"`
	Name    string `json:"name,omitempty"`
	// Input is set when the tree came from a local file instead of the API.
	Input string `json:"input,omitempty"`
}

// Timing contains performance metrics.
type Timing struct {
	PrepareMs int64 `json:"prepareMs"`
	LLMMs     int64 `json:"llmMs"`
	TotalMs   int64 `json:"totalMs"`
}

// CacheOrigin describes the earlier run whose answer a cache hit reused.
type CacheOrigin struct {
	RunID      string    `json:"runId"`
	CreatedAt  time.Time `json:"createdAt"`
	TokensUsed int       `json:"tokensUsed"`
}

// Report is the top-level output structure.
type Report struct {
	Tool       string     `json:"tool"`
	Version    string     `json:"version"`
	RunID      string     `json:"runId"`
	CreatedAt  time.Time  `json:"createdAt"`
	Provider   string     `json:"provider"`
	Model      string     `json:"model"`
	Lang       string     `json:"lang"`
	Source     Source     `json:"source"`
	Stats      node.Stats `json:"stats"`
	Redactions int        `json:"redactions"`
	CacheHit   bool       `json:"cacheHit"`
	// CachedFrom is set on a cache hit; TokensUsed is then zero.
	CachedFrom *CacheOrigin `json:"cachedFrom,omitempty"`
	TokensUsed int          `json:"tokensUsed"`
	Markdown   string       `json:"markdown"`
	Timing     Timing       `json:"timing"`
}

// Tool name and report format version stamped on every Report.
const (
	ToolName      = "figcrit"
	ReportVersion = "1.0"
)
