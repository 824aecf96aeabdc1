package critique

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/figcrit/internal/cache"
	"github.com/dshills/figcrit/internal/config"
	"github.com/dshills/figcrit/internal/node"
	"github.com/dshills/figcrit/internal/providers"
	"github.com/dshills/figcrit/internal/redact"
)

// ErrNoTree is returned when Run is given nothing to critique.
var ErrNoTree = errors.New("no design tree to critique")

// Input is one design to critique.
type Input struct {
	// Tree is redacted in place when privacy.redactSecrets is on.
	Tree   *node.ProjectedNode
	Source Source
	// Checks may be nil for the built-in pack.
	Checks *Checks
}

// Deps are the collaborators a run needs. Cache and Logger may be nil.
type Deps struct {
	Generator providers.Generator
	Cache     *cache.Cache
	Logger    *zap.Logger
}

// Run executes a critique of in.Tree using the given configuration.
func Run(ctx context.Context, in Input, cfg config.Config, deps Deps) (*Report, error) {
	startTime := time.Now()
	if in.Tree == nil {
		return nil, ErrNoTree
	}
	if deps.Generator == nil {
		return nil, fmt.Errorf("no report generator configured")
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	report := &Report{
		Tool:      ToolName,
		Version:   ReportVersion,
		RunID:     uuid.NewString(),
		CreatedAt: startTime.UTC(),
		Provider:  deps.Generator.Name(),
		Model:     cfg.Model,
		Lang:      cfg.Lang,
		Source:    in.Source,
		Stats:     node.MeasureProjected(in.Tree),
	}
	if report.Source.Name == "" && in.Tree.Name != nil {
		report.Source.Name = *in.Tree.Name
	}

	// Redact secrets from layer text before anything leaves the machine
	if cfg.Privacy.RedactSecrets {
		report.Redactions = redact.Tree(in.Tree, cfg.Privacy.RedactLayers)
		if report.Redactions > 0 {
			log.Info("redacted design text", zap.Int("fields", report.Redactions))
		}
	}

	encoded, err := node.Encode(in.Tree, cfg.TreeFormat)
	if err != nil {
		return nil, err
	}

	systemPrompt := SystemPrompt(cfg.Lang)
	userPrompt := BuildUserPrompt(encoded, cfg.TreeFormat, cfg.Lang, in.Checks)
	report.Timing.PrepareMs = time.Since(startTime).Milliseconds()
	log.Debug("prompt assembled",
		zap.String("run_id", report.RunID),
		zap.Int("nodes", report.Stats.Nodes),
		zap.Int("depth", report.Stats.Depth),
		zap.Int("prompt_bytes", len(systemPrompt)+len(userPrompt)))

	cacheKey := cache.NewKey(report.Provider, cfg.Model, cfg.Temperature, encoded, systemPrompt, userPrompt)
	design := cache.Design{FileKey: in.Source.FileKey, NodeID: in.Source.NodeID}
	if deps.Cache != nil {
		if e, ok := deps.Cache.Get(design, cacheKey); ok {
			log.Info("using cached report",
				zap.String("run_id", report.RunID),
				zap.String("cached_run_id", e.RunID))
			report.CacheHit = true
			report.CachedFrom = &CacheOrigin{RunID: e.RunID, CreatedAt: e.CreatedAt, TokensUsed: e.TokensUsed}
			report.Markdown = e.Markdown
			report.Timing.TotalMs = time.Since(startTime).Milliseconds()
			return report, nil
		}
	}

	llmStart := time.Now()
	log.Info("generating report",
		zap.String("provider", report.Provider),
		zap.String("model", cfg.Model))
	resp, err := deps.Generator.Generate(ctx, providers.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}
	report.Timing.LLMMs = time.Since(llmStart).Milliseconds()

	report.Markdown = stripMarkdownFence(resp.Content)
	if strings.TrimSpace(report.Markdown) == "" {
		return nil, providers.ErrEmptyResponse
	}
	report.TokensUsed = resp.TokensUsed

	if deps.Cache != nil {
		err := deps.Cache.Put(cache.Entry{
			Key:        cacheKey,
			Design:     design,
			RunID:      report.RunID,
			Markdown:   report.Markdown,
			TokensUsed: report.TokensUsed,
			CreatedAt:  report.CreatedAt,
		})
		if err != nil {
			log.Warn("could not cache report", zap.Error(err))
		}
	}

	report.Timing.TotalMs = time.Since(startTime).Milliseconds()
	log.Info("report generated",
		zap.String("run_id", report.RunID),
		zap.Int("tokens", report.TokensUsed),
		zap.Int64("llm_ms", report.Timing.LLMMs))
	return report, nil
}

// stripMarkdownFence removes a ```markdown wrapper some models put around
// the whole answer. Fences inside the report are left alone.
func stripMarkdownFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	lang := strings.ToLower(strings.TrimSpace(strings.TrimLeft(lines[0], "`")))
	if lang != "" && lang != "markdown" && lang != "md" {
		return content
	}
	if strings.TrimSpace(lines[len(lines)-1]) != "```" {
		return content
	}
	// A bare opener followed by more fences is separate code blocks, not a
	// wrapper.
	if lang == "" {
		for _, l := range lines[1 : len(lines)-1] {
			if strings.HasPrefix(strings.TrimSpace(l), "```") {
				return content
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}
