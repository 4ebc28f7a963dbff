package artifacts

import "github.com/csb-labs/csb/internal/mcp"

// ServerEntry is one server as the agent runtime reads it.
type ServerEntry struct {
	Type      string            `json:"type,omitempty"`
	URL       string            `json:"url,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Command   string            `json:"command,omitempty"`
	Args      []string          `json:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	AutoStart bool              `json:"autoStart"`
	Trusted   bool              `json:"trusted"`
}

// NewServerEntry converts a definition to its runtime entry.
func NewServerEntry(def mcp.ServerDefinition) ServerEntry {
	e := ServerEntry{AutoStart: true, Trusted: true}
	if def.URL != "" {
		e.Type, e.URL, e.Headers = def.Type, def.URL, def.Headers
		return e
	}
	e.Command = def.Command
	e.Args = def.Args
	if e.Args == nil {
		e.Args = []string{}
	}
	e.Env = def.RuntimeEnv()
	return e
}

// serverEntries keeps the server map's order when encoded.
type serverEntries struct {
	servers *mcp.ServerMap
}

func (s serverEntries) MarshalJSON() ([]byte, error) {
	return s.servers.MarshalJSONWith(func(def mcp.ServerDefinition) any {
		return NewServerEntry(def)
	})
}

// ServerDocument renders {"mcpServers": {...}} for servers in map order.
func ServerDocument(servers *mcp.ServerMap) ([]byte, error) {
	if servers == nil {
		servers = mcp.NewServerMap()
	}
	return marshalDocument(struct {
		Servers serverEntries `json:"mcpServers"`
	}{serverEntries{servers}})
}
