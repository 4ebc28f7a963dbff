package linker

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
)

// ManifestVersion is bumped when the manifest shape changes.
const ManifestVersion = 1

// Link is one symlink to create: Link (relative to the agent home) points at
// Target (relative to the staged tree root).
type Link struct {
	Target string `json:"target"`
	Link   string `json:"link"`
	Source string `json:"source"`
	Origin string `json:"origin"`
}

// Manifest is the declarative description of every link the setup script
// creates.
type Manifest struct {
	Version    int      `json:"version"`
	AgentHome  string   `json:"agentHome"`
	ContextDir string   `json:"contextDir"`
	Dirs       []string `json:"dirs"`
	Links      []Link   `json:"links"`
}

// BuildManifest turns exposures into a manifest for the given container
// paths. Directories every link needs are listed once, sorted.
func BuildManifest(exposures []Exposure, agentHome, contextDir string) Manifest {
	m := Manifest{
		Version:    ManifestVersion,
		AgentHome:  agentHome,
		ContextDir: contextDir,
		Dirs:       []string{},
		Links:      []Link{},
	}

	dirs := map[string]bool{}
	for _, e := range exposures {
		dirs[path.Dir(e.LinkPath)] = true
		m.Links = append(m.Links, Link{
			Target: e.Item.StagedPath,
			Link:   e.LinkPath,
			Source: e.Item.SourcePath,
			Origin: e.Item.Origin.String(),
		})
	}
	for d := range dirs {
		m.Dirs = append(m.Dirs, d)
	}
	sort.Strings(m.Dirs)
	return m
}

// Marshal encodes the manifest as indented JSON with a trailing newline.
func (m Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling link manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseManifest decodes a manifest written by Marshal.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing link manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return Manifest{}, fmt.Errorf("unsupported link manifest version %d", m.Version)
	}
	return m, nil
}
