package mcp

// builtinOrder fixes the listing order of the built-in catalog.
var builtinOrder = []string{"filesystem", "firecrawl", "notion", "github"}

var builtins = map[string]ServerDefinition{
	"filesystem": {
		Description: "File system access (read/write files)",
		Command:     "npx",
		Args:        []string{"-y", "@modelcontextprotocol/server-filesystem", "/workspace"},
	},
	"firecrawl": {
		Description: "Web scraping and crawling",
		Command:     "npx",
		Args:        []string{"-y", "firecrawl-mcp"},
		RequiredEnv: []string{"FIRECRAWL_API_KEY"},
		Env:         map[string]string{"FIRECRAWL_API_KEY": "${FIRECRAWL_API_KEY}"},
	},
	"notion": {
		Description: "Notion workspace integration",
		Command:     "npx",
		Args:        []string{"-y", "@notionhq/notion-mcp-server"},
		RequiredEnv: []string{"NOTION_TOKEN"},
		Env: map[string]string{
			"OPENAPI_MCP_HEADERS": `{"Authorization": "Bearer ${NOTION_TOKEN}", "Notion-Version": "2022-06-28"}`,
		},
	},
	"github": {
		Description: "GitHub repository access",
		Command:     "npx",
		Args:        []string{"-y", "@modelcontextprotocol/server-github"},
		RequiredEnv: []string{"GITHUB_TOKEN"},
		Env:         map[string]string{"GITHUB_PERSONAL_ACCESS_TOKEN": "${GITHUB_TOKEN}"},
	},
}

// Builtin returns a copy of the named built-in definition.
func Builtin(name string) (ServerDefinition, bool) {
	def, ok := builtins[name]
	if !ok {
		return ServerDefinition{}, false
	}
	def.Args = append([]string(nil), def.Args...)
	def.RequiredEnv = append([]string(nil), def.RequiredEnv...)
	if def.Env != nil {
		env := make(map[string]string, len(def.Env))
		for k, v := range def.Env {
			env[k] = v
		}
		def.Env = env
	}
	return def, true
}

// IsBuiltin reports whether name is in the built-in catalog.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// BuiltinNames returns the catalog names in listing order.
func BuiltinNames() []string {
	return append([]string(nil), builtinOrder...)
}

// Builtins returns the whole catalog as an ordered map.
func Builtins() *ServerMap {
	m := NewServerMap()
	for _, name := range builtinOrder {
		def, _ := Builtin(name)
		m.Set(name, def)
	}
	return m
}
