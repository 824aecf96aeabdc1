// Package config loads and merges figcrit configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (FIGCRIT_PROVIDER, FIGCRIT_MODEL, FIGCRIT_LANG, etc.)
//  3. Config file ($XDG_CONFIG_HOME/figcrit/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write it back and
// [SetField] to update a single key. Secrets never live in the config file:
// [LoadCredentials] reads them from the environment after loading an
// optional .env file.
package config
