package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/figcrit/internal/cache"
	"github.com/dshills/figcrit/internal/config"
	"github.com/dshills/figcrit/internal/figma"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the report cache",
}

var flagExpiredOnly bool

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached reports",
	Long: "Remove every cached report, only the expired ones (--expired), or the reports " +
		"for one design (--url or --file-key and --node-id).",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		design, err := cacheDesign()
		if err != nil {
			return err
		}
		c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}

		var n int
		var what string
		switch {
		case design != nil:
			n, err = c.Invalidate(*design)
			what = fmt.Sprintf("cached reports for %s node %s", design.FileKey, design.NodeID)
		case flagExpiredOnly:
			n, err = c.Prune()
			what = "expired cached reports"
		default:
			n, err = c.Clear()
			what = "cached reports"
		}
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s from %s\n", n, what, c.Dir())
		return nil
	},
}

// cacheDesign returns the design named by the clear flags, or nil for none.
func cacheDesign() (*cache.Design, error) {
	if flagURL == "" && flagFileKey == "" && flagNodeID == "" {
		return nil, nil
	}
	if flagExpiredOnly {
		return nil, fmt.Errorf("--expired cannot be combined with a design")
	}
	d := cache.Design{FileKey: flagFileKey, NodeID: flagNodeID}
	if flagURL != "" {
		if flagFileKey != "" || flagNodeID != "" {
			return nil, fmt.Errorf("use either --url or --file-key/--node-id, not both")
		}
		key, id, err := figma.ParseURL(flagURL)
		if err != nil {
			return nil, err
		}
		d.FileKey, d.NodeID = key, id
	}
	if d.FileKey == "" || d.NodeID == "" {
		return nil, fmt.Errorf("--file-key and --node-id are both required")
	}
	d.NodeID = figma.NormalizeNodeID(d.NodeID)
	return &d, nil
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		if !c.Enabled() {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache is disabled.")
			return nil
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheClearCmd.Flags().BoolVar(&flagExpiredOnly, "expired", false, "Only remove entries past their TTL")
	cacheClearCmd.Flags().StringVar(&flagURL, "url", "", "Figma design URL of the design to forget")
	cacheClearCmd.Flags().StringVar(&flagFileKey, "file-key", "", "File key of the design to forget")
	cacheClearCmd.Flags().StringVar(&flagNodeID, "node-id", "", "Node id of the design to forget")
}
