package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Errors returned by LoadCredentials when a required secret is absent.
var (
	ErrMissingFigmaToken = errors.New("FIGMA_ACCESS_TOKEN is not set")
	ErrMissingModelKey   = errors.New("model API key is not set")
)

// DefaultEnvFile is the dotenv file read when no other path is given.
const DefaultEnvFile = ".env"

// Credentials holds the secrets needed for one run.
type Credentials struct {
	FigmaToken string
	ModelKey   string
	// EnvFile is the dotenv file that was loaded, empty when none was found.
	EnvFile string
}

// ModelKeyVars returns the environment variables consulted, in order, for
// the API key of the given provider. Providers that need no key return nil.
func ModelKeyVars(provider string) []string {
	switch strings.ToLower(provider) {
	case "gemini", "google":
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	case "openai":
		return []string{"OPENAI_API_KEY"}
	default:
		return nil
	}
}

// LoadEnvFile loads variables from a dotenv file without overriding values
// already present in the process environment. A missing file is not an
// error; the returned bool reports whether the file was read.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("loading %s: %w", path, err)
	}
	return true, nil
}

// LoadCredentials loads envFile and then reads the Figma token and the model
// key for provider from the environment.
func LoadCredentials(envFile, provider string) (Credentials, error) {
	loaded, err := LoadEnvFile(envFile)
	if err != nil {
		return Credentials{}, err
	}
	var creds Credentials
	if loaded {
		creds.EnvFile = envFile
		if creds.EnvFile == "" {
			creds.EnvFile = DefaultEnvFile
		}
	}

	creds.FigmaToken = strings.TrimSpace(os.Getenv("FIGMA_ACCESS_TOKEN"))
	if creds.FigmaToken == "" {
		return creds, ErrMissingFigmaToken
	}

	creds.ModelKey, err = ModelKey(provider)
	return creds, err
}

// ModelKey reads the API key for provider from the environment. Providers
// that need no key return an empty key and no error.
func ModelKey(provider string) (string, error) {
	vars := ModelKeyVars(provider)
	for _, name := range vars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}
	if len(vars) > 0 {
		return "", fmt.Errorf("%w: set %s", ErrMissingModelKey, strings.Join(vars, " or "))
	}
	return "", nil
}
