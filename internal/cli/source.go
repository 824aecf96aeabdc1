package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/figcrit/internal/config"
	"github.com/dshills/figcrit/internal/figma"
	"github.com/dshills/figcrit/internal/node"
)

// Flags that pick the design and how it is fetched, shared by analyze and
// project.
var (
	flagURL        string
	flagFileKey    string
	flagNodeID     string
	flagInput      string
	flagEnvFile    string
	flagMaxDepth   int
	flagFetchDepth int
	flagTreeFormat string
	flagOut        string
)

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagURL, "url", "", "Figma design URL containing ?node-id=")
	cmd.Flags().StringVar(&flagFileKey, "file-key", "", "Figma file key (default: $FIGMA_FILE_KEY)")
	cmd.Flags().StringVar(&flagNodeID, "node-id", "", "Node id such as 1:2 or 1-2 (default: $FIGMA_NODE_ID)")
	cmd.Flags().StringVar(&flagInput, "input", "", "Read a node document from a local JSON file (- for stdin) instead of the API")
	cmd.Flags().StringVar(&flagEnvFile, "env", config.DefaultEnvFile, "Dotenv file with credentials")
	cmd.Flags().IntVar(&flagMaxDepth, "max-depth", 0, "Reject trees deeper than this many levels")
	cmd.Flags().IntVar(&flagFetchDepth, "fetch-depth", 0, "Ask the API for at most this many levels")
	cmd.Flags().StringVar(&flagTreeFormat, "tree-format", "", "Tree encoding (json, yaml)")
}

// designSource is where the node tree comes from: the API (FileKey and
// NodeID) or a local file (Input).
type designSource struct {
	FileKey string
	NodeID  string
	Input   string
}

// Seams for the interactive prompt.
var (
	stdin      io.Reader = os.Stdin
	isTerminal           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

// resolveSource combines --input, --url, --file-key/--node-id, the
// FIGMA_FILE_KEY/FIGMA_NODE_ID variables and, on a terminal, a prompt.
func resolveSource(errOut io.Writer) (designSource, error) {
	if flagInput != "" {
		if flagURL != "" || flagFileKey != "" || flagNodeID != "" {
			return designSource{}, fmt.Errorf("--input cannot be combined with --url, --file-key or --node-id")
		}
		return designSource{Input: flagInput}, nil
	}

	src := designSource{FileKey: flagFileKey, NodeID: flagNodeID}
	if flagURL != "" {
		if flagFileKey != "" || flagNodeID != "" {
			return designSource{}, fmt.Errorf("use either --url or --file-key/--node-id, not both")
		}
		key, id, err := figma.ParseURL(flagURL)
		if err != nil {
			return designSource{}, err
		}
		src.FileKey, src.NodeID = key, id
	}
	if src.FileKey == "" {
		src.FileKey = strings.TrimSpace(os.Getenv("FIGMA_FILE_KEY"))
	}
	if src.NodeID == "" {
		src.NodeID = strings.TrimSpace(os.Getenv("FIGMA_NODE_ID"))
	}

	if src.FileKey == "" || src.NodeID == "" {
		if !isTerminal() {
			return designSource{}, fmt.Errorf("no design given: pass --url, or --file-key and --node-id, or set FIGMA_FILE_KEY and FIGMA_NODE_ID")
		}
		if err := promptSource(&src, errOut); err != nil {
			return designSource{}, err
		}
	}
	src.NodeID = figma.NormalizeNodeID(src.NodeID)
	return src, nil
}

// promptSource asks for whatever is missing. A pasted design URL answers both
// questions at once.
func promptSource(src *designSource, errOut io.Writer) error {
	r := bufio.NewReader(stdin)
	ask := func(label string) (string, error) {
		fmt.Fprintf(errOut, "%s: ", label)
		line, err := r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
		}
		return strings.TrimSpace(line), nil
	}

	if src.FileKey == "" {
		answer, err := ask("Figma file key or URL")
		if err != nil {
			return err
		}
		if strings.Contains(answer, "figma.com/") {
			key, id, err := figma.ParseURL(answer)
			if err != nil {
				return err
			}
			src.FileKey = key
			if src.NodeID == "" {
				src.NodeID = id
			}
		} else {
			src.FileKey = answer
		}
	}
	if src.NodeID == "" {
		answer, err := ask("Node id")
		if err != nil {
			return err
		}
		src.NodeID = answer
	}
	if src.FileKey == "" || src.NodeID == "" {
		return fmt.Errorf("file key and node id are required")
	}
	return nil
}

// loadTree returns the raw node tree for src, from disk or from the API.
func loadTree(ctx context.Context, src designSource, cfg config.Config, token string) (*node.RawNode, error) {
	if src.Input != "" {
		var data []byte
		var err error
		if src.Input == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(src.Input)
		}
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		raw, err := node.Decode(data, node.DecodeOptions{MaxDepth: cfg.MaxDepth})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Input, err)
		}
		logRawTree(raw, zap.String("input", src.Input), zap.Int("bytes", len(data)))
		return raw, nil
	}

	client, err := figma.NewClient(token,
		figma.WithAPIURL(cfg.FigmaAPIURL),
		figma.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	raw, err := client.GetNode(ctx, src.FileKey, src.NodeID, figma.FetchOptions{
		Depth:    cfg.FetchDepth,
		MaxDepth: cfg.MaxDepth,
	})
	if err != nil {
		return nil, err
	}
	logRawTree(raw, zap.String("fileKey", src.FileKey), zap.String("nodeId", src.NodeID))
	return raw, nil
}

func logRawTree(raw *node.RawNode, fields ...zap.Field) {
	st := node.Measure(raw)
	logger.Info("loaded node document", append(fields,
		zap.Int("nodes", st.Nodes),
		zap.Int("depth", st.Depth),
		zap.Int("textNodes", st.TextNodes))...)
}
