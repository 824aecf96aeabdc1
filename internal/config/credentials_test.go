package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// clearCredentialEnv unsets every variable LoadCredentials reads and restores
// them when the test ends.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FIGMA_ACCESS_TOKEN", "GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCredentials_FromEnvFile(t *testing.T) {
	clearCredentialEnv(t)
	path := writeEnvFile(t, "FIGMA_ACCESS_TOKEN=figd_abc\nGEMINI_API_KEY=gem-key\n")

	creds, err := LoadCredentials(path, "gemini")
	if err != nil {
		t.Fatalf("LoadCredentials error: %v", err)
	}
	if creds.FigmaToken != "figd_abc" {
		t.Errorf("FigmaToken = %q, want %q", creds.FigmaToken, "figd_abc")
	}
	if creds.ModelKey != "gem-key" {
		t.Errorf("ModelKey = %q, want %q", creds.ModelKey, "gem-key")
	}
	if creds.EnvFile != path {
		t.Errorf("EnvFile = %q, want %q", creds.EnvFile, path)
	}
}

func TestLoadCredentials_EnvWinsOverFile(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("FIGMA_ACCESS_TOKEN", "from-process")
	path := writeEnvFile(t, "FIGMA_ACCESS_TOKEN=from-file\nOPENAI_API_KEY=sk-file\n")

	creds, err := LoadCredentials(path, "openai")
	if err != nil {
		t.Fatalf("LoadCredentials error: %v", err)
	}
	if creds.FigmaToken != "from-process" {
		t.Errorf("FigmaToken = %q, want process value", creds.FigmaToken)
	}
	if creds.ModelKey != "sk-file" {
		t.Errorf("ModelKey = %q, want %q", creds.ModelKey, "sk-file")
	}
}

func TestLoadCredentials_GoogleFallback(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("FIGMA_ACCESS_TOKEN", "tok")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	creds, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.env"), "google")
	if err != nil {
		t.Fatalf("LoadCredentials error: %v", err)
	}
	if creds.ModelKey != "google-key" {
		t.Errorf("ModelKey = %q, want %q", creds.ModelKey, "google-key")
	}
	if creds.EnvFile != "" {
		t.Errorf("EnvFile = %q, want empty for missing file", creds.EnvFile)
	}
}

func TestLoadCredentials_Missing(t *testing.T) {
	clearCredentialEnv(t)
	missing := filepath.Join(t.TempDir(), "none.env")

	if _, err := LoadCredentials(missing, "gemini"); !errors.Is(err, ErrMissingFigmaToken) {
		t.Errorf("err = %v, want ErrMissingFigmaToken", err)
	}

	t.Setenv("FIGMA_ACCESS_TOKEN", "tok")
	if _, err := LoadCredentials(missing, "gemini"); !errors.Is(err, ErrMissingModelKey) {
		t.Errorf("err = %v, want ErrMissingModelKey", err)
	}

	creds, err := LoadCredentials(missing, "ollama")
	if err != nil {
		t.Fatalf("ollama needs no key, got %v", err)
	}
	if creds.ModelKey != "" {
		t.Errorf("ModelKey = %q, want empty", creds.ModelKey)
	}
}

func TestLoadEnvFile_Malformed(t *testing.T) {
	path := writeEnvFile(t, "FIGCRIT_TEST_QUOTE=\"unterminated\n")
	if _, err := LoadEnvFile(path); err == nil {
		t.Error("Expected error for malformed env file")
	}
}

func TestModelKey(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")

	key, err := ModelKey("openai")
	if err != nil || key != "sk-test" {
		t.Errorf("ModelKey(openai) = %q, %v", key, err)
	}
	if _, err := ModelKey("gemini"); !errors.Is(err, ErrMissingModelKey) {
		t.Errorf("err = %v, want ErrMissingModelKey", err)
	}
	if key, err := ModelKey("ollama"); err != nil || key != "" {
		t.Errorf("ModelKey(ollama) = %q, %v", key, err)
	}
}
