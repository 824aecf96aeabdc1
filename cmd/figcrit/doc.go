// Figcrit is a CLI that critiques Figma designs with LLM providers.
//
// It fetches one node of a Figma file, reduces the node tree to the
// attributes that matter for layout, text and color, and asks a model for a
// UI/UX and accessibility report written as Markdown.
//
// Usage:
//
//	figcrit analyze --url "https://www.figma.com/design/KEY/Name?node-id=1-2"
//	figcrit analyze --file-key KEY --node-id 1:2 --lang ja
//	figcrit project --input node.json --tree-format yaml
//	figcrit models doctor             # check the Figma token and model key
//	figcrit config set provider openai
//
// Credentials are read from the environment or a .env file:
// FIGMA_ACCESS_TOKEN plus GEMINI_API_KEY (or GOOGLE_API_KEY) or
// OPENAI_API_KEY depending on the provider.
package main
