package figma

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/figcrit/internal/logging"
	"github.com/dshills/figcrit/internal/node"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const defaultAPIURL = "https://api.figma.com"

var (
	// ErrNodeNotFound means the response has no entry for the requested node.
	ErrNodeNotFound = errors.New("node not found in response")
	// ErrNoDocument means the node entry carries no document.
	ErrNoDocument = errors.New("node has no document")
)

// Client provides access to the Figma REST API.
type Client struct {
	token   string
	apiURL  string
	httpCli *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIURL overrides the API base URL.
func WithAPIURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.apiURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpCli = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(l) }
}

// NewClient creates a Figma client authenticated with a personal access
// token. The base URL defaults to FIGMA_API_URL or the public API.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("figma access token is empty")
	}

	apiURL := os.Getenv("FIGMA_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	c := &Client{
		token:   token,
		apiURL:  strings.TrimRight(apiURL, "/"),
		httpCli: &http.Client{Timeout: 60 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchOptions controls a node fetch.
type FetchOptions struct {
	// Depth asks the API to stop traversing below this many levels. Zero
	// fetches the whole subtree.
	Depth int
	// MaxDepth rejects documents with more levels than this. Zero disables
	// the check.
	MaxDepth int
}

// GetNode fetches one node of a file and decodes its document subtree.
func (c *Client) GetNode(ctx context.Context, fileKey, nodeID string, opts FetchOptions) (*node.RawNode, error) {
	if fileKey == "" || nodeID == "" {
		return nil, fmt.Errorf("file key and node id are required")
	}
	nodeID = NormalizeNodeID(nodeID)

	q := url.Values{}
	q.Set("ids", nodeID)
	if opts.Depth > 0 {
		q.Set("depth", strconv.Itoa(opts.Depth))
	}
	endpoint := fmt.Sprintf("%s/v1/files/%s/nodes?%s", c.apiURL, url.PathEscape(fileKey), q.Encode())

	c.logger.Info("requesting Figma node", zap.String("fileKey", fileKey), zap.String("nodeId", nodeID))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("file %s not found: %w", fileKey, err)
		}
		return nil, fmt.Errorf("fetching node: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("parsing response: invalid JSON")
	}

	entry := gjson.GetBytes(body, "nodes."+gjson.Escape(nodeID))
	if !entry.Exists() || entry.Type == gjson.Null {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	doc := entry.Get("document")
	if !doc.Exists() || doc.Type == gjson.Null {
		return nil, fmt.Errorf("%w: %s", ErrNoDocument, nodeID)
	}

	raw, err := node.Decode([]byte(doc.Raw), node.DecodeOptions{MaxDepth: opts.MaxDepth})
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", nodeID, err)
	}

	c.logger.Info("fetched Figma node",
		zap.String("nodeId", nodeID),
		zap.Int("bytes", len(doc.Raw)))
	return raw, nil
}

// User is the account a token belongs to.
type User struct {
	ID     string
	Handle string
	Email  string
}

// Me returns the user the access token authenticates as. It is the cheapest
// call that proves a token works.
func (c *Client) Me(ctx context.Context) (User, error) {
	body, err := c.get(ctx, c.apiURL+"/v1/me")
	if err != nil {
		return User{}, fmt.Errorf("fetching user: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return User{}, fmt.Errorf("parsing response: invalid JSON")
	}
	res := gjson.GetManyBytes(body, "id", "handle", "email")
	return User{ID: res[0].String(), Handle: res[1].String(), Email: res[2].String()}, nil
}

var errNotFound = errors.New("not found")

// get performs an authenticated GET and maps error statuses.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return nil, &authError{status: resp.StatusCode, message: apiMessage(body)}
	case resp.StatusCode == 404:
		return nil, fmt.Errorf("%w: %s", errNotFound, apiMessage(body))
	case resp.StatusCode != 200:
		return nil, fmt.Errorf("Figma API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// apiMessage extracts the error text from a Figma error body
// ({"status":403,"err":"Invalid token"}), falling back to the raw body.
func apiMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"err", "message"} {
			if m := gjson.GetBytes(body, key); m.Type == gjson.String {
				return m.String()
			}
		}
	}
	return strings.TrimSpace(string(body))
}

type authError struct {
	status  int
	message string
}

func (e *authError) Error() string {
	return fmt.Sprintf("Figma authentication failed (status %d): %s", e.status, e.message)
}

// IsAuthError reports whether err came from a rejected access token.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}
