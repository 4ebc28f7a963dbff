package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/csb-labs/csb/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyDefaultServers   = "default_servers"
	KeyContainerRuntime = "container_runtime"
	KeyAgentHome        = "agent_home"
	KeySkipPermissions  = "skip_permissions"
	KeyExclude          = "exclude"
)

var defaults = map[string]any{
	KeyDefaultServers:   []string{"filesystem"},
	KeyContainerRuntime: "docker",
	KeyAgentHome:        "",
	KeySkipPermissions:  true,
	KeyExclude:          []string{"**/.git", "**/node_modules", "**/.DS_Store"},
}

// listKeys are settings whose values are comma-separated on the command line.
var listKeys = map[string]bool{
	KeyDefaultServers: true,
	KeyExclude:        true,
}

// Settings is the typed view of the config file.
type Settings struct {
	DefaultServers   []string `mapstructure:"default_servers"`
	ContainerRuntime string   `mapstructure:"container_runtime"`
	AgentHome        string   `mapstructure:"agent_home"`
	SkipPermissions  bool     `mapstructure:"skip_permissions"`
	Exclude          []string `mapstructure:"exclude"`
}

var v = viper.New()

// Dir returns the path to the config directory (~/.config/csb/).
func Dir() string {
	if d := os.Getenv(branding.EnvVar("CONFIG_DIR")); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// It may be called repeatedly; each call starts from a clean instance.
func Load() error {
	v = viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(FilePath())
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file means defaults.
		if _, statErr := os.Stat(FilePath()); os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// Current returns the typed settings from the last Load.
func Current() (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	// Env overrides for list keys arrive as a single string.
	s.DefaultServers = splitList(s.DefaultServers)
	s.Exclude = splitList(s.Exclude)
	return &s, nil
}

// Keys returns the known setting keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns a config value formatted for display. Returns empty string if not set.
func Get(key string) string {
	if listKeys[key] {
		return strings.Join(splitList(v.GetStringSlice(key)), ",")
	}
	return v.GetString(key)
}

// Set validates and writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if _, known := defaults[key]; !known {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}

	var typed any = value
	switch {
	case listKeys[key]:
		typed = splitList([]string{value})
	case key == KeySkipPermissions:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		typed = b
	case key == KeyContainerRuntime:
		if value != "docker" && value != "podman" {
			return fmt.Errorf("%s must be docker or podman, got %q", key, value)
		}
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	v.Set(key, typed)

	configFile := FilePath()
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
