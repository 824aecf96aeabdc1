// Package cli wires together the Cobra command tree for the figcrit binary.
//
// It defines the root command and its subcommands (analyze, project, config,
// models, cache, version), binds flags, reads configuration and credentials,
// runs the fetch, projection and critique pipeline, and returns exit codes
// that scripts can branch on.
package cli
