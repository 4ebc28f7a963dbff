package project

import (
	"github.com/csb-labs/csb/internal/errs"
	"github.com/csb-labs/csb/internal/mcp"
)

// AddBuiltin selects a catalog server. Adding an already selected server is a
// no-op; added reports whether the record changed.
func (s *Selection) AddBuiltin(name string) (added bool, err error) {
	if !mcp.IsBuiltin(name) {
		return false, errs.Errorf(errs.UnknownServer, name, "available servers: %v", mcp.BuiltinNames())
	}
	if s.HasBuiltin(name) {
		return false, nil
	}
	s.Servers = append(s.Servers, name)
	return true, nil
}

// AddCustom defines a custom server. The name must not collide with a
// catalog server or an existing custom server. Env names are stored as given.
func (s *Selection) AddCustom(name, command string, args, envNames []string) error {
	if mcp.IsBuiltin(name) {
		return errs.Errorf(errs.NameConflict, name, "already exists as a built-in server")
	}
	if s.CustomServers.Has(name) {
		return errs.Errorf(errs.NameConflict, name, "custom server already exists")
	}

	def := mcp.ServerDefinition{
		Command:     command,
		Args:        args,
		RequiredEnv: envNames,
	}
	if err := def.Validate(name); err != nil {
		return err
	}

	s.CustomServers.Set(name, def)
	return nil
}

// RemoveServer removes name from the selected built-ins or the custom
// servers. Removing the last server is allowed.
func (s *Selection) RemoveServer(name string) error {
	for i, n := range s.Servers {
		if n == name {
			s.Servers = append(s.Servers[:i], s.Servers[i+1:]...)
			return nil
		}
	}
	if s.CustomServers.Delete(name) {
		return nil
	}
	return errs.Errorf(errs.NotFound, name, "server is not configured for this project")
}

// AddExtraSource records an extra context source path. Adding a recorded
// path is a no-op; added reports whether the record changed.
func (s *Selection) AddExtraSource(path string) (added bool) {
	if s.HasExtraSource(path) {
		return false
	}
	s.Context.Extra = append(s.Context.Extra, path)
	s.Context.Enabled = true
	return true
}

// RemoveExtraSource forgets an extra context source path.
func (s *Selection) RemoveExtraSource(path string) error {
	for i, p := range s.Context.Extra {
		if p == path {
			s.Context.Extra = append(s.Context.Extra[:i], s.Context.Extra[i+1:]...)
			return nil
		}
	}
	return errs.Errorf(errs.NotFound, path, "not a configured context source")
}
