package userdata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFiles holds variables loaded from .env files. Earlier files win.
type EnvFiles struct {
	Values map[string]string
	Loaded []string
}

// LoadEnvFiles reads each existing file with godotenv. Missing files are
// skipped; malformed files are an error.
func LoadEnvFiles(paths ...string) (*EnvFiles, error) {
	env := &EnvFiles{Values: map[string]string{}}
	for _, p := range paths {
		values, err := godotenv.Read(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading env file %s: %w", p, err)
		}
		env.Loaded = append(env.Loaded, p)
		for k, v := range values {
			if _, seen := env.Values[k]; !seen {
				env.Values[k] = v
			}
		}
	}
	return env, nil
}

// Lookup resolves key from the process environment first, then the files.
// source names where the value came from.
func (e *EnvFiles) Lookup(key string) (value, source string, ok bool) {
	if v, found := os.LookupEnv(key); found && v != "" {
		return v, "environment", true
	}
	if e != nil {
		if v, found := e.Values[key]; found && v != "" {
			return v, ".env", true
		}
	}
	return "", "", false
}

// sensitivePatterns are substrings that indicate a value should be redacted.
var sensitivePatterns = []string{"TOKEN", "SECRET", "PASSWORD", "KEY", "CREDENTIAL", "HEADERS"}

// RedactValue returns a redacted version of value if the key name contains
// a sensitive pattern (case-insensitive substring match).
// Values with 4+ chars show the first 4 chars + "***".
func RedactValue(key, value string) string {
	upper := strings.ToUpper(key)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(upper, pattern) {
			if len(value) >= 4 {
				return value[:4] + "***"
			}
			return "***"
		}
	}
	return value
}
