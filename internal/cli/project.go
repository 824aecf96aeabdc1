package cli

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/figcrit/internal/config"
	"github.com/dshills/figcrit/internal/node"
	"github.com/dshills/figcrit/internal/output"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Print the projected node tree without calling a model",
	Long: "Fetch a Figma node (or read one from --input) and print the reduced tree that " +
		"analyze would send to the model.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadEnvFile(flagEnvFile); err != nil {
			return err
		}
		overrides := map[string]string{}
		if flagTreeFormat != "" {
			overrides["treeFormat"] = flagTreeFormat
		}
		if flagMaxDepth > 0 {
			overrides["maxDepth"] = strconv.Itoa(flagMaxDepth)
		}
		if flagFetchDepth > 0 {
			overrides["fetchDepth"] = strconv.Itoa(flagFetchDepth)
		}
		cfg, err := config.Load(overrides)
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		src, err := resolveSource(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		runProject(cmd.Context(), cmd.ErrOrStderr(), src, cfg)
		return nil
	},
}

func runProject(ctx context.Context, errOut io.Writer, src designSource, cfg config.Config) {
	var token string
	if src.Input == "" {
		// no provider: only the Figma token is required
		creds, err := config.LoadCredentials(flagEnvFile, "")
		if err != nil {
			fail(errOut, err)
			return
		}
		token = creds.FigmaToken
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	raw, err := loadTree(ctx, src, cfg, token)
	if err != nil {
		fail(errOut, err)
		return
	}
	tree := node.Project(raw)
	stats := node.MeasureProjected(tree)

	data, err := node.Encode(tree, cfg.TreeFormat)
	if err != nil {
		fail(errOut, err)
		return
	}
	logger.Info("projected node tree",
		zap.Int("nodes", stats.Nodes),
		zap.Int("depth", stats.Depth),
		zap.Int("textNodes", stats.TextNodes),
		zap.Int("bytes", len(data)))

	if err := output.WriteBytes(data, flagOut); err != nil {
		fail(errOut, err)
	}
}

func init() {
	addSourceFlags(projectCmd)
	projectCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}
