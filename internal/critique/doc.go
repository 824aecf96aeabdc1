// Package critique turns a projected Figma node tree into a Markdown UI/UX
// and accessibility report.
//
// [Run] redacts secrets from layer text, encodes the tree as JSON or YAML,
// assembles the system and user prompts in the configured language, consults
// the report cache and finally calls a [providers.Generator]. The user prompt
// carries a fixed checklist (contrast, minimum font size, minimum touch
// target, spacing and typography consistency, concrete fixes) whose
// thresholds and extra rules come from a check pack loaded with
// [LoadChecks].
package critique
