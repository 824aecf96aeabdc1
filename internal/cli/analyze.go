package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/figcrit/internal/cache"
	"github.com/dshills/figcrit/internal/config"
	"github.com/dshills/figcrit/internal/critique"
	"github.com/dshills/figcrit/internal/figma"
	"github.com/dshills/figcrit/internal/node"
	"github.com/dshills/figcrit/internal/output"
	"github.com/dshills/figcrit/internal/providers"
)

// Analyze flags
var (
	flagProvider    string
	flagModel       string
	flagFormat      string
	flagLang        string
	flagChecks      string
	flagTemperature float64
	flagNoRedact    bool
	flagNoCache     bool
	flagCheckOnly   bool
)

func addAnalyzeFlags(cmd *cobra.Command) {
	addSourceFlags(cmd)
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (gemini, openai, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (markdown, json, terminal)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path, - for stdout (default: report.md)")
	cmd.Flags().StringVar(&flagLang, "lang", "", "Report language (en, ja)")
	cmd.Flags().StringVar(&flagChecks, "checks", "", "Check pack file (YAML or JSON)")
	cmd.Flags().Float64Var(&flagTemperature, "temperature", 0, "Sampling temperature (default from config)")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Always ask the model, ignoring cached reports")
	cmd.Flags().BoolVar(&flagCheckOnly, "check", false, "Validate configuration and credentials, then exit without network calls")
}

// buildOverrides maps the flags that were set onto config keys. The
// temperature override is added by the caller because zero is a valid value.
func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagOut != "" {
		m["out"] = flagOut
	}
	if flagLang != "" {
		m["lang"] = flagLang
	}
	if flagChecks != "" {
		m["checksFile"] = flagChecks
	}
	if flagTreeFormat != "" {
		m["treeFormat"] = flagTreeFormat
	}
	if flagMaxDepth > 0 {
		m["maxDepth"] = strconv.Itoa(flagMaxDepth)
	}
	if flagFetchDepth > 0 {
		m["fetchDepth"] = strconv.Itoa(flagFetchDepth)
	}
	return m
}

// loadConfig merges configuration with the command's flags and validates
// the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	overrides := buildOverrides()
	if f := cmd.Flags().Lookup("temperature"); f != nil && f.Changed {
		overrides["temperature"] = strconv.FormatFloat(flagTemperature, 'f', -1, 64)
	}
	cfg, err := config.Load(overrides)
	if err != nil {
		return config.Config{}, err
	}
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
	}
	if flagNoCache {
		cfg.Cache.Enabled = false
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Critique a Figma frame and write a report",
	Long: "Fetch a Figma node, project it to the attributes that matter for layout, text and color, " +
		"and ask an LLM for a UI/UX and accessibility report.",
	Example: `  figcrit analyze --url "https://www.figma.com/design/AbC123/App?node-id=1-2"
  figcrit analyze --file-key AbC123 --node-id 1:2 --lang ja --format terminal
  figcrit analyze --input node.json --provider ollama --model llama3.3 --out -`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the env file may carry FIGCRIT_* settings as well as credentials
		if _, err := config.LoadEnvFile(flagEnvFile); err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		src, err := resolveSource(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		checks, err := critique.LoadChecks(cfg.ChecksFile)
		if err != nil {
			return err
		}
		runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), src, checks, cfg)
		return nil
	},
}

func runAnalyze(ctx context.Context, out, errOut io.Writer, src designSource, checks *critique.Checks, cfg config.Config) {
	if !cfg.Privacy.RedactSecrets {
		logger.Warn("secret redaction is disabled")
	}

	var creds config.Credentials
	var err error
	if src.Input != "" {
		creds.ModelKey, err = config.ModelKey(cfg.Provider)
	} else {
		creds, err = config.LoadCredentials(flagEnvFile, cfg.Provider)
	}
	if err != nil {
		fail(errOut, err)
		return
	}

	gen, err := providers.New(cfg.Provider, cfg.Model, creds.ModelKey)
	if err != nil {
		fail(errOut, err)
		return
	}

	if flagCheckOnly {
		fmt.Fprintf(out, "OK: %s with %s/%s, report to %s (%s)\n",
			describeSource(src), cfg.Provider, cfg.Model, reportDestination(cfg), cfg.Format)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	raw, err := loadTree(ctx, src, cfg, creds.FigmaToken)
	if err != nil {
		fail(errOut, err)
		return
	}
	tree := node.Project(raw)
	logger.Info("projected node tree",
		zap.Int("nodes", node.MeasureProjected(tree).Nodes))

	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		fail(errOut, fmt.Errorf("opening cache: %w", err))
		return
	}

	report, err := critique.Run(ctx, critique.Input{
		Tree: tree,
		Source: critique.Source{
			FileKey: src.FileKey,
			NodeID:  src.NodeID,
			Input:   src.Input,
		},
		Checks: checks,
	}, cfg, critique.Deps{Generator: gen, Cache: c, Logger: logger})
	if err != nil {
		fail(errOut, err)
		return
	}

	dest := reportDestination(cfg)
	writer, err := output.GetWriter(cfg.Format)
	if err != nil {
		fail(errOut, err)
		return
	}
	if tw, ok := writer.(*output.TerminalWriter); ok && dest == output.Stdout {
		tw.Width = terminalWidth()
	}
	if err := output.WriteReport(writer, report, dest); err != nil {
		fail(errOut, fmt.Errorf("writing output: %w", err))
		return
	}
	if dest != output.Stdout {
		logger.Info("report saved", zap.String("path", dest))
		fmt.Fprintf(errOut, "Report saved to %s\n", dest)
	}
}

// reportDestination is cfg.Out, except that terminal output goes to stdout
// unless --out was given.
func reportDestination(cfg config.Config) string {
	if cfg.Format == "terminal" && flagOut == "" {
		return output.Stdout
	}
	if cfg.Out == "" {
		return output.DefaultOutPath
	}
	return cfg.Out
}

func describeSource(src designSource) string {
	if src.Input != "" {
		return "input " + src.Input
	}
	return fmt.Sprintf("file %s node %s", src.FileKey, src.NodeID)
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 0
	}
	// leave room for glamour's margins
	if w > 120 {
		return 120
	}
	return w - 4
}

// fail reports err and sets the exit code from its kind.
func fail(errOut io.Writer, err error) {
	logger.Debug("command failed", zap.Error(err))
	fmt.Fprintf(errOut, "Error: %v\n", err)
	exitCode = exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case figma.IsAuthError(err), providers.IsAuthError(err),
		errors.Is(err, config.ErrMissingFigmaToken), errors.Is(err, config.ErrMissingModelKey):
		return ExitAuthError
	default:
		return ExitRuntimeError
	}
}

func init() {
	addAnalyzeFlags(analyzeCmd)
}
