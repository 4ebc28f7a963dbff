package artifacts

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/csb-labs/csb/internal/errs"
	"github.com/csb-labs/csb/internal/mcp"
	"github.com/csb-labs/csb/internal/platform"
	"github.com/csb-labs/csb/internal/project"
)

//go:embed templates/Dockerfile
var defaultDockerfile []byte

// DefaultDockerfile returns the built-in image build file.
func DefaultDockerfile() []byte {
	out := make([]byte, len(defaultDockerfile))
	copy(out, defaultDockerfile)
	return out
}

// Document is one rendered artifact ready to be written.
type Document struct {
	Artifact Artifact
	Path     string
	Data     []byte
	Perm     os.FileMode
}

// Inputs carry everything the generator reads.
type Inputs struct {
	Layout    project.Layout
	Selection *project.Selection
	// Global is the host agent's server map. Only used when the selection
	// includes the global configuration.
	Global *mcp.ServerMap
	// HostSettingsPath is the host agent settings file the overlay starts from.
	HostSettingsPath string
	SkipPermissions  bool
	// Dockerfile is an alternate image build file copied at init. Empty
	// means the built-in template.
	Dockerfile string
}

// Result is the rendered artifact set plus selected names the catalog does
// not know.
type Result struct {
	Documents []Document
	Unknown   []string
}

// RuntimeServers returns the server map the container sees: the global map
// overlaid with the project's servers when the global configuration is
// included, the project's own servers otherwise.
func RuntimeServers(sel *project.Selection, global *mcp.ServerMap) (*mcp.ServerMap, []string) {
	if sel.IncludesGlobal() {
		return mcp.Merge(global, sel.Servers, &sel.CustomServers)
	}
	return mcp.ProjectServers(sel.Servers, &sel.CustomServers)
}

// Generate renders every artifact op permits, in memory.
func Generate(op Operation, in Inputs) (*Result, error) {
	sel := in.Selection
	if sel == nil {
		return nil, errs.Errorf(errs.NotInitialized, in.Layout.SelectionPath(), "no selection record")
	}
	includeGlobal := sel.IncludesGlobal()
	projectServers, unknown := mcp.ProjectServers(sel.Servers, &sel.CustomServers)
	res := &Result{Unknown: unknown}

	for _, a := range All {
		if !Permits(a, op, includeGlobal) {
			continue
		}
		doc := Document{Artifact: a, Perm: platform.FilePerm}
		var err error
		switch a {
		case SelectionRecord:
			doc.Path = in.Layout.SelectionPath()
			doc.Data, err = sel.Marshal()
		case ImageBuild:
			doc.Path = in.Layout.DockerfilePath()
			doc.Data, err = dockerfile(in.Dockerfile)
		case ContainerSpec:
			doc.Path = in.Layout.ContainerSpecPath()
			doc.Data, err = BuildSpec(projectServers, includeGlobal).Marshal()
		case StaticServers:
			doc.Path = in.Layout.StaticServersPath()
			doc.Data, err = ServerDocument(projectServers)
		case RuntimeServerDoc:
			runtime, _ := RuntimeServers(sel, in.Global)
			doc.Path = in.Layout.RuntimeServersPath()
			doc.Data, err = ServerDocument(runtime)
		case SettingsOverlayDoc:
			doc.Path = in.Layout.SettingsOverlayPath()
			doc.Data, err = SettingsOverlay(in.HostSettingsPath, in.SkipPermissions)
		case Gitignore:
			doc.Path = in.Layout.GitignorePath()
			doc.Data, err = gitignore(doc.Path)
		}
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", a, err)
		}
		res.Documents = append(res.Documents, doc)
	}
	return res, nil
}

func dockerfile(source string) ([]byte, error) {
	if source == "" {
		return DefaultDockerfile(), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.E(errs.NotFound, source, err)
		}
		return nil, errs.E(errs.UnreadableSource, source, err)
	}
	return data, nil
}

func gitignore(path string) ([]byte, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.E(errs.UnreadableSource, path, err)
	}
	return GitignoreContent(existing, IgnoredPaths), nil
}

// Write commits docs as one batch: every file is staged before any is
// renamed into place. It returns the written paths.
func Write(docs []Document) ([]string, error) {
	var b platform.Batch
	for _, d := range docs {
		b.Add(d.Path, d.Data, d.Perm)
	}
	paths := b.Paths()
	if err := b.Commit(); err != nil {
		return nil, errs.E(errs.PersistenceFailure, "", err)
	}
	return paths, nil
}
