package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider != "gemini" {
		t.Errorf("Default provider = %q, want %q", cfg.Provider, "gemini")
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Default model = %q, want %q", cfg.Model, "gemini-2.5-pro")
	}
	if cfg.Format != "markdown" {
		t.Errorf("Default format = %q, want %q", cfg.Format, "markdown")
	}
	if cfg.Out != "report.md" {
		t.Errorf("Default out = %q, want %q", cfg.Out, "report.md")
	}
	if cfg.Temperature != 0 {
		t.Errorf("Default temperature = %g, want 0", cfg.Temperature)
	}
	if cfg.MaxDepth != 512 {
		t.Errorf("Default maxDepth = %d, want 512", cfg.MaxDepth)
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("Default redactSecrets should be true")
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("FIGCRIT_PROVIDER", "openai")
	t.Setenv("FIGCRIT_MODEL", "gpt-4o")
	t.Setenv("FIGCRIT_FORMAT", "json")
	t.Setenv("FIGCRIT_LANG", "ja")
	t.Setenv("FIGCRIT_OUT", "-")
	t.Setenv("FIGCRIT_MAX_DEPTH", "64")

	cfg := Default()
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4o")
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if cfg.Lang != "ja" {
		t.Errorf("Lang = %q, want %q", cfg.Lang, "ja")
	}
	if cfg.Out != "-" {
		t.Errorf("Out = %q, want %q", cfg.Out, "-")
	}
	if cfg.MaxDepth != 64 {
		t.Errorf("MaxDepth = %d, want 64", cfg.MaxDepth)
	}
}

func TestMergeEnv_InvalidMaxDepth(t *testing.T) {
	t.Setenv("FIGCRIT_MAX_DEPTH", "deep")

	cfg := Default()
	if err := mergeEnv(&cfg); err == nil {
		t.Error("Expected error for invalid FIGCRIT_MAX_DEPTH")
	}
}

func TestMergeOverrides(t *testing.T) {
	cfg := Default()
	overrides := map[string]string{
		"provider":    "openai",
		"model":       "gpt-4o-mini",
		"format":      "terminal",
		"temperature": "0.4",
		"maxDepth":    "",
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4o-mini")
	}
	if cfg.Format != "terminal" {
		t.Errorf("Format = %q, want %q", cfg.Format, "terminal")
	}
	if cfg.Temperature != 0.4 {
		t.Errorf("Temperature = %g, want 0.4", cfg.Temperature)
	}
	if cfg.MaxDepth != 512 {
		t.Errorf("Empty override changed MaxDepth to %d", cfg.MaxDepth)
	}
}

func TestMergeOverrides_Nil(t *testing.T) {
	cfg := Default()
	if err := mergeOverrides(&cfg, nil); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("Provider changed with nil overrides")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key   string
		value string
	}{
		{"provider", "openai"},
		{"model", "gpt-4o"},
		{"format", "json"},
		{"out", "critique.md"},
		{"lang", "ja"},
		{"treeFormat", "yaml"},
		{"maxDepth", "100"},
		{"fetchDepth", "2"},
		{"maxTokens", "4096"},
		{"timeoutSeconds", "60"},
		{"temperature", "0.2"},
		{"checksFile", "checks.yaml"},
		{"figmaApiUrl", "http://localhost:8080"},
		{"cache.enabled", "false"},
		{"cache.dir", "/tmp/figcrit"},
		{"cache.ttlSeconds", "60"},
		{"privacy.redactSecrets", "false"},
		{"privacy.redactLayers", "*password*, Card/Number,"},
	}

	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
		}
	}

	if cfg.TreeFormat != "yaml" {
		t.Errorf("TreeFormat = %q, want %q", cfg.TreeFormat, "yaml")
	}
	if cfg.FetchDepth != 2 {
		t.Errorf("FetchDepth = %d, want 2", cfg.FetchDepth)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	if cfg.Privacy.RedactSecrets {
		t.Error("RedactSecrets should be false")
	}
	if cfg.Cache.TTLSeconds != 60 {
		t.Errorf("Cache.TTLSeconds = %d, want 60", cfg.Cache.TTLSeconds)
	}
	if len(cfg.Privacy.RedactLayers) != 2 || cfg.Privacy.RedactLayers[1] != "Card/Number" {
		t.Errorf("RedactLayers = %v, want [*password* Card/Number]", cfg.Privacy.RedactLayers)
	}
}

func TestSetField_Errors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"nonexistent", "value"},
		{"maxDepth", "notanumber"},
		{"temperature", "warm"},
		{"cache.enabled", "maybe"},
	}
	for _, tt := range tests {
		cfg := Default()
		if err := SetField(&cfg, tt.key, tt.value); err == nil {
			t.Errorf("SetField(%q, %q) expected error", tt.key, tt.value)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"provider", func(c *Config) { c.Provider = "anthropic" }},
		{"model", func(c *Config) { c.Model = "" }},
		{"format", func(c *Config) { c.Format = "sarif" }},
		{"lang", func(c *Config) { c.Lang = "fr" }},
		{"tree format", func(c *Config) { c.TreeFormat = "xml" }},
		{"max depth", func(c *Config) { c.MaxDepth = -1 }},
		{"temperature", func(c *Config) { c.Temperature = 3 }},
		{"max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"timeout", func(c *Config) { c.TimeoutSeconds = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMergeFile_AllFields(t *testing.T) {
	dst := Default()
	src := Config{
		Provider:       "openai",
		Model:          "gpt-4o",
		Format:         "json",
		Out:            "out.json",
		Lang:           "ja",
		TreeFormat:     "yaml",
		MaxDepth:       32,
		FetchDepth:     4,
		Temperature:    0.5,
		MaxTokens:      1000,
		TimeoutSeconds: 30,
		ChecksFile:     "checks.yaml",
		FigmaAPIURL:    "http://figma.local",
		Cache: CacheConfig{
			Dir:        "/tmp/cache",
			TTLSeconds: 3600,
		},
	}
	mergeFile(&dst, src)

	if dst.Provider != "openai" || dst.Model != "gpt-4o" {
		t.Errorf("Provider/Model = %q/%q, want openai/gpt-4o", dst.Provider, dst.Model)
	}
	if dst.Lang != "ja" {
		t.Errorf("Lang = %q, want %q", dst.Lang, "ja")
	}
	if dst.TreeFormat != "yaml" {
		t.Errorf("TreeFormat = %q, want %q", dst.TreeFormat, "yaml")
	}
	if dst.MaxDepth != 32 || dst.FetchDepth != 4 {
		t.Errorf("MaxDepth/FetchDepth = %d/%d, want 32/4", dst.MaxDepth, dst.FetchDepth)
	}
	if dst.Temperature != 0.5 {
		t.Errorf("Temperature = %g, want 0.5", dst.Temperature)
	}
	if dst.ChecksFile != "checks.yaml" {
		t.Errorf("ChecksFile = %q, want %q", dst.ChecksFile, "checks.yaml")
	}
	if dst.Cache.Dir != "/tmp/cache" || dst.Cache.TTLSeconds != 3600 {
		t.Errorf("Cache = %+v", dst.Cache)
	}
	// Booleans stay on because the file cannot switch them off.
	if !dst.Cache.Enabled || !dst.Privacy.RedactSecrets {
		t.Error("file with false booleans should not disable defaults")
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg-test/figcrit" {
		t.Errorf("ConfigDir = %q, want %q", dir, "/tmp/xdg-test/figcrit")
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	if path != "/tmp/xdg-test/figcrit/config.json" {
		t.Errorf("ConfigPath = %q, want %q", path, "/tmp/xdg-test/figcrit/config.json")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Provider = "openai"
	cfg.Model = "gpt-4o"
	cfg.Lang = "ja"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", loaded.Provider, "openai")
	}
	if loaded.Lang != "ja" {
		t.Errorf("Lang = %q, want %q", loaded.Lang, "ja")
	}
}

func TestLoadFile_NoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Provider != "" {
		t.Errorf("Provider should be empty for missing file, got %q", cfg.Provider)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "figcrit"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "figcrit", "config.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(); err == nil {
		t.Error("Expected error for malformed config file")
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	fileCfg := Default()
	fileCfg.Model = "from-file"
	fileCfg.Lang = "ja"
	if err := Save(fileCfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	t.Setenv("FIGCRIT_MODEL", "from-env")

	cfg, err := Load(map[string]string{"format": "json"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Lang != "ja" {
		t.Errorf("Lang = %q, want file value %q", cfg.Lang, "ja")
	}
	if cfg.Model != "from-env" {
		t.Errorf("Model = %q, want env value %q", cfg.Model, "from-env")
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want override %q", cfg.Format, "json")
	}

	cfg, err = Load(map[string]string{"model": "from-flag"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Model != "from-flag" {
		t.Errorf("Model = %q, want override %q", cfg.Model, "from-flag")
	}
}
