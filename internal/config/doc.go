// Package config manages user-level settings stored at ~/.config/csb/config.yaml:
// the default server selection for new projects, the container runtime binary,
// the agent home directory, the permission mode and staging exclusions.
// Every key can be overridden with a CSB_-prefixed environment variable.
package config
