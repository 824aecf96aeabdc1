package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the figcrit configuration.
type Config struct {
	Provider       string        `json:"provider"`
	Model          string        `json:"model"`
	Format         string        `json:"format"`
	Out            string        `json:"out"`
	Lang           string        `json:"lang"`
	TreeFormat     string        `json:"treeFormat"`
	MaxDepth       int           `json:"maxDepth"`
	FetchDepth     int           `json:"fetchDepth"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"maxTokens"`
	TimeoutSeconds int           `json:"timeoutSeconds"`
	ChecksFile     string        `json:"checksFile,omitempty"`
	FigmaAPIURL    string        `json:"figmaApiUrl,omitempty"`
	Cache          CacheConfig   `json:"cache"`
	Privacy        PrivacyConfig `json:"privacy"`
}

// CacheConfig controls caching of generated reports.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls redaction of design text before it leaves the machine.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactLayers  []string `json:"redactLayers,omitempty"`
}

// Known values for the enumerated settings.
var (
	Providers   = []string{"gemini", "google", "openai", "ollama"}
	Formats     = []string{"markdown", "json", "terminal"}
	Langs       = []string{"en", "ja"}
	TreeFormats = []string{"json", "yaml"}
)

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:       "gemini",
		Model:          "gemini-2.5-pro",
		Format:         "markdown",
		Out:            "report.md",
		Lang:           "en",
		TreeFormat:     "json",
		MaxDepth:       512,
		MaxTokens:      8192,
		TimeoutSeconds: 300,
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for figcrit.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "figcrit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "figcrit"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "figcrit"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "figcrit"), nil
	default:
		return filepath.Join(home, ".config", "figcrit"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Out != "" {
		dst.Out = src.Out
	}
	if src.Lang != "" {
		dst.Lang = src.Lang
	}
	if src.TreeFormat != "" {
		dst.TreeFormat = src.TreeFormat
	}
	if src.MaxDepth > 0 {
		dst.MaxDepth = src.MaxDepth
	}
	if src.FetchDepth > 0 {
		dst.FetchDepth = src.FetchDepth
	}
	if src.Temperature > 0 {
		dst.Temperature = src.Temperature
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.TimeoutSeconds > 0 {
		dst.TimeoutSeconds = src.TimeoutSeconds
	}
	if src.ChecksFile != "" {
		dst.ChecksFile = src.ChecksFile
	}
	if src.FigmaAPIURL != "" {
		dst.FigmaAPIURL = src.FigmaAPIURL
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	if len(src.Privacy.RedactLayers) > 0 {
		dst.Privacy.RedactLayers = src.Privacy.RedactLayers
	}
	// A file can switch these on but not off; use the flags for that.
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets || dst.Privacy.RedactSecrets
}

func mergeEnv(cfg *Config) error {
	strs := map[string]*string{
		"FIGCRIT_PROVIDER":    &cfg.Provider,
		"FIGCRIT_MODEL":       &cfg.Model,
		"FIGCRIT_FORMAT":      &cfg.Format,
		"FIGCRIT_OUT":         &cfg.Out,
		"FIGCRIT_LANG":        &cfg.Lang,
		"FIGCRIT_TREE_FORMAT": &cfg.TreeFormat,
		"FIGCRIT_CHECKS":      &cfg.ChecksFile,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"FIGCRIT_MAX_DEPTH":   &cfg.MaxDepth,
		"FIGCRIT_FETCH_DEPTH": &cfg.FetchDepth,
		"FIGCRIT_MAX_TOKENS":  &cfg.MaxTokens,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s must be an integer: %w", key, err)
			}
			*dst = n
		}
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "format":
		cfg.Format = value
	case "out":
		cfg.Out = value
	case "lang":
		cfg.Lang = value
	case "treeFormat":
		cfg.TreeFormat = value
	case "checksFile":
		cfg.ChecksFile = value
	case "figmaApiUrl":
		cfg.FigmaAPIURL = value
	case "maxDepth", "fetchDepth", "maxTokens", "timeoutSeconds", "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		switch key {
		case "maxDepth":
			cfg.MaxDepth = n
		case "fetchDepth":
			cfg.FetchDepth = n
		case "maxTokens":
			cfg.MaxTokens = n
		case "timeoutSeconds":
			cfg.TimeoutSeconds = n
		case "cache.ttlSeconds":
			cfg.Cache.TTLSeconds = n
		}
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		cfg.Temperature = f
	case "cache.enabled", "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		if key == "cache.enabled" {
			cfg.Cache.Enabled = b
		} else {
			cfg.Privacy.RedactSecrets = b
		}
	case "cache.dir":
		cfg.Cache.Dir = value
	case "privacy.redactLayers":
		cfg.Privacy.RedactLayers = splitList(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Validate checks enumerated settings and numeric ranges.
func Validate(cfg Config) error {
	if !contains(Providers, cfg.Provider) {
		return fmt.Errorf("unknown provider %q (want one of %v)", cfg.Provider, Providers)
	}
	if cfg.Model == "" {
		return fmt.Errorf("model is empty")
	}
	if !contains(Formats, cfg.Format) {
		return fmt.Errorf("unknown format %q (want one of %v)", cfg.Format, Formats)
	}
	if !contains(Langs, cfg.Lang) {
		return fmt.Errorf("unknown lang %q (want one of %v)", cfg.Lang, Langs)
	}
	if !contains(TreeFormats, cfg.TreeFormat) {
		return fmt.Errorf("unknown tree format %q (want one of %v)", cfg.TreeFormat, TreeFormats)
	}
	if cfg.MaxDepth < 0 || cfg.FetchDepth < 0 {
		return fmt.Errorf("maxDepth and fetchDepth must not be negative")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", cfg.Temperature)
	}
	if cfg.MaxTokens <= 0 {
		return fmt.Errorf("maxTokens must be positive")
	}
	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeoutSeconds must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
