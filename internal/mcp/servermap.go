package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// ServerMap is a name → definition mapping that remembers insertion order.
// Replacing an existing name keeps its position. The zero value is empty
// and ready to use.
type ServerMap struct {
	names []string
	defs  map[string]ServerDefinition
}

// NewServerMap returns an empty map.
func NewServerMap() *ServerMap {
	return &ServerMap{defs: map[string]ServerDefinition{}}
}

// Set inserts or replaces name.
func (m *ServerMap) Set(name string, def ServerDefinition) {
	if m.defs == nil {
		m.defs = map[string]ServerDefinition{}
	}
	if _, ok := m.defs[name]; !ok {
		m.names = append(m.names, name)
	}
	m.defs[name] = def
}

// Get returns the definition for name.
func (m *ServerMap) Get(name string) (ServerDefinition, bool) {
	if m == nil {
		return ServerDefinition{}, false
	}
	def, ok := m.defs[name]
	return def, ok
}

// Has reports whether name is present.
func (m *ServerMap) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Delete removes name. It reports whether name was present.
func (m *ServerMap) Delete(name string) bool {
	if !m.Has(name) {
		return false
	}
	delete(m.defs, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the names in order.
func (m *ServerMap) Names() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

// Len returns the number of entries.
func (m *ServerMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Clone returns an independent copy.
func (m *ServerMap) Clone() *ServerMap {
	out := NewServerMap()
	for _, name := range m.Names() {
		def, _ := m.Get(name)
		out.Set(name, def)
	}
	return out
}

// MarshalYAML emits a mapping node in insertion order.
func (m ServerMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range m.names {
		var value yaml.Node
		if err := value.Encode(m.defs[name]); err != nil {
			return nil, fmt.Errorf("encoding server %s: %w", name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&value,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping node, keeping document order.
func (m *ServerMap) UnmarshalYAML(value *yaml.Node) error {
	*m = ServerMap{defs: map[string]ServerDefinition{}}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: servers must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var def ServerDefinition
		if err := value.Content[i+1].Decode(&def); err != nil {
			return fmt.Errorf("server %s: %w", name, err)
		}
		if m.Has(name) {
			return fmt.Errorf("line %d: duplicate server %s", value.Content[i].Line, name)
		}
		m.Set(name, def)
	}
	return nil
}

// MarshalJSON emits an object in insertion order.
func (m ServerMap) MarshalJSON() ([]byte, error) {
	return m.MarshalJSONWith(func(def ServerDefinition) any { return def })
}

// MarshalJSONWith emits an object in insertion order with each definition
// encoded as render returns it.
func (m *ServerMap) MarshalJSONWith(render func(ServerDefinition) any) ([]byte, error) {
	return marshalOrdered(m.Names(), func(name string) (any, error) {
		def, _ := m.Get(name)
		return render(def), nil
	})
}

// marshalOrdered writes a JSON object whose keys appear in the given order.
// encoding/json sorts map keys, so ordered output is assembled by hand.
func marshalOrdered(keys []string, value func(string) (any, error)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := value(key)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
