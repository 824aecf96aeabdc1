package figma

import (
	"fmt"
	"net/url"
	"strings"
)

// fileKinds are the first path segment of Figma links that address a file.
var fileKinds = map[string]bool{
	"file":   true,
	"design": true,
	"proto":  true,
	"board":  true,
}

// ParseURL extracts the file key and node id from a Figma link such as
// https://www.figma.com/design/AbC123/Name?node-id=12-34. The node id is
// returned in API form (12:34) and is empty when the link has none. Branch
// links resolve to the branch key.
func ParseURL(raw string) (fileKey, nodeID string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("cannot parse Figma URL: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host != "figma.com" && !strings.HasSuffix(host, ".figma.com") {
		return "", "", fmt.Errorf("not a Figma URL: %s", raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || !fileKinds[parts[0]] || parts[1] == "" {
		return "", "", fmt.Errorf("cannot find a file key in Figma URL: %s", raw)
	}
	fileKey = parts[1]
	if len(parts) >= 4 && parts[2] == "branch" && parts[3] != "" {
		fileKey = parts[3]
	}

	if id := u.Query().Get("node-id"); id != "" {
		nodeID = NormalizeNodeID(id)
	}
	return fileKey, nodeID, nil
}

// NormalizeNodeID converts the dash form used in links (12-34) to the colon
// form the API expects (12:34). Ids that already contain a colon are kept.
func NormalizeNodeID(id string) string {
	id = strings.TrimSpace(id)
	if strings.Contains(id, ":") {
		return id
	}
	return strings.ReplaceAll(id, "-", ":")
}
