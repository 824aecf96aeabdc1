// Package figma is a minimal Figma REST API client that fetches a single
// node subtree for critique.
//
// [Client.GetNode] calls GET /v1/files/:key/nodes with the X-Figma-Token
// header, pulls nodes[id].document out of the response and hands it to
// [node.Decode]. Rejected tokens surface as errors for which [IsAuthError]
// is true. [ParseURL] turns a design link copied from the Figma app into a
// file key and node id.
package figma
