package sandbox

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/csb-labs/csb/internal/errs"
	"github.com/csb-labs/csb/internal/linker"
	"github.com/csb-labs/csb/internal/mcp"
	"github.com/csb-labs/csb/internal/project"
)

// ServerInfo is one configured server.
type ServerInfo struct {
	Name       string
	Builtin    bool
	Definition mcp.ServerDefinition
}

// Servers lists the project's servers in record order.
func (e *Engine) Servers(root string) ([]ServerInfo, error) {
	sel, err := e.load(layoutOf(root))
	if err != nil {
		return nil, err
	}
	var out []ServerInfo
	m := sel.ProjectServers()
	for _, name := range m.Names() {
		def, _ := m.Get(name)
		out = append(out, ServerInfo{Name: name, Builtin: mcp.IsBuiltin(name) && !sel.CustomServers.Has(name), Definition: def})
	}
	return out, nil
}

// ContextListing is what context list shows.
type ContextListing struct {
	Selection *project.Selection
	// Manifest is the last synced link manifest; nil before the first sync.
	Manifest *linker.Manifest
}

// ListContext returns the context configuration and the last sync's links.
func (e *Engine) ListContext(root string) (*ContextListing, error) {
	layout := layoutOf(root)
	sel, err := e.load(layout)
	if err != nil {
		return nil, err
	}
	listing := &ContextListing{Selection: sel}
	m, err := readManifest(layout)
	if err != nil {
		return nil, err
	}
	listing.Manifest = m
	return listing, nil
}

func readManifest(layout project.Layout) (*linker.Manifest, error) {
	data, err := os.ReadFile(layout.LinkManifestPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m, err := linker.ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Status is the state of a project.
type Status struct {
	Layout      project.Layout
	Initialized bool
	Selection   *project.Selection
	// RequiredEnv lists the variables the selected servers need.
	RequiredEnv []string
	Links       int
	Synced      bool
	// HasDockerfile is false when the image build file was deleted.
	HasDockerfile bool
	ContainerID   string
	// RuntimeErr is set when the container runtime could not be queried.
	RuntimeErr error
}

// Status inspects root. A project that was never initialized is not an
// error.
func (e *Engine) Status(ctx context.Context, root string) (*Status, error) {
	layout := layoutOf(root)
	st := &Status{Layout: layout}
	sel, err := e.load(layout)
	if err != nil {
		if errors.Is(err, errs.NotInitialized) {
			return st, nil
		}
		return nil, err
	}
	st.Initialized = true
	st.Selection = sel
	st.RequiredEnv = mcp.RequiredEnv(sel.ProjectServers())

	if _, err := os.Stat(layout.DockerfilePath()); err == nil {
		st.HasDockerfile = true
	}
	if m, err := readManifest(layout); err == nil && m != nil {
		st.Synced = true
		st.Links = len(m.Links)
	}
	if e.Runtime != nil {
		st.ContainerID, st.RuntimeErr = e.Runtime.ContainerID(ctx, layout.Root)
	}
	return st, nil
}
