package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/csb-labs/csb/internal/errs"
	"github.com/csb-labs/csb/internal/mcp"
	"github.com/csb-labs/csb/internal/platform"
	"go.yaml.in/yaml/v3"
)

// RecordVersion is written into new records.
const RecordVersion = "1.0"

// DefaultMaxDepth is the ancestor walk depth used when none is recorded.
const DefaultMaxDepth = 3

// DefaultGlobalComponents are the agent-home components mounted when global
// context is included.
var DefaultGlobalComponents = []string{"CLAUDE.md", "agents", "commands", "skills", "rules", "settings.json"}

// Selection is the .devcontainer/csb.yaml structure.
type Selection struct {
	Version       string        `yaml:"version"`
	Servers       []string      `yaml:"servers"`
	CustomServers mcp.ServerMap `yaml:"custom_servers"`
	Context       ContextConfig `yaml:"context"`
}

// ContextConfig controls context aggregation.
type ContextConfig struct {
	Enabled bool          `yaml:"enabled"`
	Global  GlobalContext `yaml:"global"`
	Parents ParentContext `yaml:"parents"`
	Extra   []string      `yaml:"extra"`
}

// GlobalContext controls use of the agent home directory.
type GlobalContext struct {
	Include    bool     `yaml:"include"`
	Components []string `yaml:"components"`
}

// ParentContext controls the ancestor walk.
type ParentContext struct {
	AutoDiscover bool `yaml:"auto_discover"`
	MaxDepth     int  `yaml:"max_depth"`
}

// NewSelection returns a fresh record selecting servers. When withContext is
// true, global and ancestor context are enabled with default settings.
func NewSelection(servers []string, withContext bool, maxDepth int) *Selection {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	s := &Selection{
		Version: RecordVersion,
		Context: ContextConfig{
			Enabled: withContext,
			Global: GlobalContext{
				Include:    withContext,
				Components: append([]string(nil), DefaultGlobalComponents...),
			},
			Parents: ParentContext{
				AutoDiscover: withContext,
				MaxDepth:     maxDepth,
			},
		},
	}
	for _, name := range servers {
		if !s.HasBuiltin(name) {
			s.Servers = append(s.Servers, name)
		}
	}
	return s
}

// Load reads, validates and decodes the record at path.
func Load(path string) (*Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Errorf(errs.NotInitialized, path, "no selection record; run init first")
		}
		return nil, fmt.Errorf("reading selection record: %w", err)
	}
	return Parse(data)
}

// Parse validates and decodes record bytes.
func Parse(data []byte) (*Selection, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, errs.E(errs.InvalidDefinition, SelectionFile, err)
	}
	if !result.Valid {
		return nil, errs.Errorf(errs.InvalidDefinition, SelectionFile, "%s", result.Summary())
	}

	var s Selection
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errs.E(errs.InvalidDefinition, SelectionFile, fmt.Errorf("parsing selection record: %w", err))
	}
	if err := CheckVersion(s.Version); err != nil {
		return nil, err
	}
	for _, name := range s.CustomServers.Names() {
		def, _ := s.CustomServers.Get(name)
		if err := def.Validate(name); err != nil {
			return nil, err
		}
	}
	s.normalize()
	return &s, nil
}

// Marshal encodes the record.
func (s *Selection) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling selection record: %w", err)
	}
	return data, nil
}

// Save writes the record to path via temp-then-rename.
func (s *Selection) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return errs.E(errs.PersistenceFailure, path, err)
	}
	if err := platform.WriteFile(path, data, platform.FilePerm); err != nil {
		return errs.E(errs.PersistenceFailure, path, err)
	}
	return nil
}

// HasBuiltin reports whether name is among the selected built-ins.
func (s *Selection) HasBuiltin(name string) bool {
	for _, n := range s.Servers {
		if n == name {
			return true
		}
	}
	return false
}

// HasExtraSource reports whether path is a recorded extra source.
func (s *Selection) HasExtraSource(path string) bool {
	for _, p := range s.Context.Extra {
		if p == path {
			return true
		}
	}
	return false
}

// ProjectServers returns the project's own servers in record order.
func (s *Selection) ProjectServers() *mcp.ServerMap {
	m, _ := mcp.ProjectServers(s.Servers, &s.CustomServers)
	return m
}

// IncludesGlobal reports whether context integration merges the global layer.
func (s *Selection) IncludesGlobal() bool {
	return s.Context.Enabled && s.Context.Global.Include
}

// IncludesComponent reports whether the named global component is mounted.
func (s *Selection) IncludesComponent(name string) bool {
	if !s.IncludesGlobal() {
		return false
	}
	for _, c := range s.Context.Global.Components {
		if c == name {
			return true
		}
	}
	return false
}

func (s *Selection) normalize() {
	if s.Context.Parents.MaxDepth == 0 && s.Context.Parents.AutoDiscover {
		s.Context.Parents.MaxDepth = DefaultMaxDepth
	}
	if s.Context.Global.Components == nil {
		s.Context.Global.Components = append([]string(nil), DefaultGlobalComponents...)
	}
	s.Version = strings.TrimSpace(s.Version)
}
