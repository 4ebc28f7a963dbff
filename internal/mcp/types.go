package mcp

import (
	"fmt"
	"strings"

	"github.com/csb-labs/csb/internal/errs"
)

// ServerDefinition describes how to launch one tool server.
type ServerDefinition struct {
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Command     string            `yaml:"command,omitempty" json:"command,omitempty"`
	Args        []string          `yaml:"args,omitempty" json:"args,omitempty"`
	RequiredEnv []string          `yaml:"required_env,omitempty" json:"requiredEnv,omitempty"`
	Env         map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Type        string            `yaml:"type,omitempty" json:"type,omitempty"`
	URL         string            `yaml:"url,omitempty" json:"url,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// Validate checks that the definition can be launched. Local servers need a
// command; remote servers (type http or sse) need a url.
func (d ServerDefinition) Validate(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.Errorf(errs.InvalidDefinition, name, "server name must not be empty")
	}
	if d.URL != "" {
		return nil
	}
	if strings.TrimSpace(d.Command) == "" {
		return errs.Errorf(errs.InvalidDefinition, name, "command must not be empty")
	}
	for _, key := range d.RequiredEnv {
		if !isEnvName(key) {
			return errs.Errorf(errs.InvalidDefinition, name, "invalid environment variable name %q", key)
		}
	}
	return nil
}

// RuntimeEnv returns the environment passed to the server at launch. Explicit
// env wins; otherwise every required variable maps to its own placeholder.
func (d ServerDefinition) RuntimeEnv() map[string]string {
	if len(d.Env) > 0 {
		out := make(map[string]string, len(d.Env))
		for k, v := range d.Env {
			out[k] = v
		}
		return out
	}
	if len(d.RequiredEnv) == 0 {
		return nil
	}
	out := make(map[string]string, len(d.RequiredEnv))
	for _, key := range d.RequiredEnv {
		out[key] = Placeholder(key)
	}
	return out
}

// Placeholder returns the substitution syntax for an environment variable.
func Placeholder(name string) string {
	return fmt.Sprintf("${%s}", name)
}

func isEnvName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
