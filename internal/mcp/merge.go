package mcp

// Merge builds the runtime server set. It starts from global, then overlays
// the project's selected built-ins (in selection order) and custom servers
// (in insertion order). A project entry replaces a global entry of the same
// name as a whole; it keeps the global entry's position. Selected names
// missing from the catalog are skipped and returned in unknown.
func Merge(global *ServerMap, selected []string, custom *ServerMap) (merged *ServerMap, unknown []string) {
	merged = NewServerMap()
	if global != nil {
		merged = global.Clone()
	}

	for _, name := range selected {
		def, ok := Builtin(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		merged.Set(name, def)
	}

	for _, name := range custom.Names() {
		def, _ := custom.Get(name)
		merged.Set(name, def)
	}

	return merged, unknown
}

// ProjectServers is Merge without a global layer: the project's own set.
func ProjectServers(selected []string, custom *ServerMap) (*ServerMap, []string) {
	return Merge(nil, selected, custom)
}

// RequiredEnv collects the required variables of every server in m, in
// first-seen order without duplicates.
func RequiredEnv(m *ServerMap) []string {
	var out []string
	seen := map[string]bool{}
	for _, name := range m.Names() {
		def, _ := m.Get(name)
		for _, key := range def.RequiredEnv {
			if !seen[key] {
				seen[key] = true
				out = append(out, key)
			}
		}
	}
	return out
}
