package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/figcrit/internal/config"
	"github.com/dshills/figcrit/internal/figma"
	"github.com/dshills/figcrit/internal/providers"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Provider and model management",
}

type modelInfo struct {
	Provider string
	Models   []string
}

var knownModels = []modelInfo{
	{
		Provider: "gemini",
		Models: []string{
			"gemini-2.5-pro",
			"gemini-2.5-flash",
			"gemini-2.5-flash-lite",
			"gemini-2.0-flash",
		},
	},
	{
		Provider: "openai",
		Models: []string{
			"gpt-4.1",
			"gpt-4.1-mini",
			"gpt-4o",
			"o3-mini",
		},
	},
	{
		Provider: "ollama",
		Models: []string{
			"llama3.3",
			"llama3.2",
			"gemma3",
			"qwen2.5",
		},
	},
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known providers and models",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		def := config.Default()
		for _, info := range knownModels {
			fmt.Fprintf(out, "%s:\n", info.Provider)
			for _, m := range info.Models {
				if info.Provider == def.Provider && m == def.Model {
					fmt.Fprintf(out, "  - %s (default)\n", m)
					continue
				}
				fmt.Fprintf(out, "  - %s\n", m)
			}
			fmt.Fprintln(out)
		}
	},
}

// Status labels; plain text when stdout is not a color terminal.
var (
	okLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("OK")
	failLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("FAIL")
)

// doctorCheck is the outcome of one credential check.
type doctorCheck struct {
	name   string
	detail string
	err    error
}

var modelsDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate the Figma token and provider credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadEnvFile(flagEnvFile); err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		// Each check records its own result so one failure does not hide the other.
		checks := make([]doctorCheck, 2)
		var g errgroup.Group
		g.Go(func() error {
			checks[0] = checkFigma(ctx)
			return nil
		})
		g.Go(func() error {
			checks[1] = checkModel(ctx, cfg)
			return nil
		})
		_ = g.Wait()

		out := cmd.OutOrStdout()
		for _, c := range checks {
			if c.err != nil {
				fmt.Fprintf(out, "%s %s: %v\n", failLabel, c.name, c.err)
				if code := exitCodeFor(c.err); code > exitCode {
					exitCode = code
				}
				continue
			}
			fmt.Fprintf(out, "%s   %s: %s\n", okLabel, c.name, c.detail)
		}
		return nil
	},
}

func checkFigma(ctx context.Context) doctorCheck {
	c := doctorCheck{name: "figma"}
	creds, err := config.LoadCredentials(flagEnvFile, "")
	if err != nil {
		c.err = err
		return c
	}
	cfg, err := config.Load(nil)
	if err != nil {
		c.err = err
		return c
	}
	client, err := figma.NewClient(creds.FigmaToken, figma.WithAPIURL(cfg.FigmaAPIURL), figma.WithLogger(logger))
	if err != nil {
		c.err = err
		return c
	}
	user, err := client.Me(ctx)
	if err != nil {
		c.err = err
		return c
	}
	c.detail = "authenticated as " + user.Handle
	return c
}

func checkModel(ctx context.Context, cfg config.Config) doctorCheck {
	c := doctorCheck{name: cfg.Provider + "/" + cfg.Model}
	key, err := config.ModelKey(cfg.Provider)
	if err != nil {
		c.err = err
		return c
	}
	gen, err := providers.New(cfg.Provider, cfg.Model, key, providers.WithMaxRetries(0))
	if err != nil {
		c.err = err
		return c
	}
	_, err = gen.Generate(ctx, providers.Request{
		SystemPrompt: "Respond with exactly: ok",
		UserPrompt:   "ping",
		MaxTokens:    256,
	})
	switch {
	case errors.Is(err, providers.ErrEmptyResponse):
		// the key was accepted; thinking models may spend the budget silently
		c.detail = "credentials accepted (empty reply)"
	case err != nil:
		c.err = err
	default:
		c.detail = "configured and responding"
	}
	return c
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsDoctorCmd)
	modelsDoctorCmd.Flags().StringVar(&flagProvider, "provider", "", "Provider to check")
	modelsDoctorCmd.Flags().StringVar(&flagModel, "model", "", "Model to check")
	modelsDoctorCmd.Flags().StringVar(&flagEnvFile, "env", config.DefaultEnvFile, "Dotenv file with credentials")
}
