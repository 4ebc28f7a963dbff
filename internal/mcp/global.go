package mcp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/csb-labs/csb/internal/errs"
	"go.yaml.in/yaml/v3"
)

// serversKey is the top-level key holding server entries in a server document.
const serversKey = "mcpServers"

// LoadGlobal reads the user's global server document. A missing file yields
// an empty map. Entries keep their document order.
func LoadGlobal(path string) (*ServerMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewServerMap(), nil
		}
		return nil, errs.E(errs.UnreadableSource, path, err)
	}
	m, err := ParseServerDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// ParseServerDocument decodes {"mcpServers": {...}} preserving key order.
// JSON is read as YAML so the mapping node keeps document order. Entries
// that are not objects, or that have neither command nor url, are rejected.
func ParseServerDocument(data []byte) (*ServerMap, error) {
	out := NewServerMap()

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errs.E(errs.InvalidDefinition, "", err)
	}
	if len(root.Content) == 0 {
		return out, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errs.Errorf(errs.InvalidDefinition, "", "line %d: server document must be an object", doc.Line)
	}

	var servers *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == serversKey {
			servers = doc.Content[i+1]
		}
	}
	if servers == nil || servers.Tag == "!!null" {
		return out, nil
	}
	if servers.Kind != yaml.MappingNode {
		return nil, errs.Errorf(errs.InvalidDefinition, serversKey, "line %d: must be an object", servers.Line)
	}

	for i := 0; i+1 < len(servers.Content); i += 2 {
		name, entry := servers.Content[i].Value, servers.Content[i+1]
		if entry.Kind != yaml.MappingNode {
			return nil, errs.Errorf(errs.InvalidDefinition, name, "line %d: server entry must be an object", entry.Line)
		}
		var def ServerDefinition
		if err := entry.Decode(&def); err != nil {
			return nil, errs.E(errs.InvalidDefinition, name, err)
		}
		if err := def.Validate(name); err != nil {
			return nil, err
		}
		out.Set(name, def)
	}
	return out, nil
}
