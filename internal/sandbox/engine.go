package sandbox

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/csb-labs/csb/internal/artifacts"
	"github.com/csb-labs/csb/internal/config"
	"github.com/csb-labs/csb/internal/errs"
	"github.com/csb-labs/csb/internal/mcp"
	"github.com/csb-labs/csb/internal/platform"
	"github.com/csb-labs/csb/internal/project"
	"github.com/csb-labs/csb/internal/runtime"
	"github.com/csb-labs/csb/internal/userdata"
	"github.com/spf13/afero"
)

// Engine runs csb operations against project directories.
type Engine struct {
	// FS is used for context discovery and staging.
	FS       afero.Fs
	Logger   *log.Logger
	Settings *config.Settings
	Runtime  runtime.ContainerRuntime
	// HomeDir is skipped during ancestor discovery.
	HomeDir string
	// AgentHome is the host agent directory holding the global server
	// document, settings and global context.
	AgentHome string
}

// New builds an engine from settings, resolving host paths.
func New(settings *config.Settings, logger *log.Logger) (*Engine, error) {
	if settings == nil {
		return nil, errors.New("settings must not be nil")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	home, err := userdata.GetHomeDir()
	if err != nil {
		return nil, err
	}
	agentHome, err := userdata.GetAgentHome(settings.AgentHome)
	if err != nil {
		return nil, fmt.Errorf("resolving agent home: %w", err)
	}
	return &Engine{
		FS:        afero.NewOsFs(),
		Logger:    logger,
		Settings:  settings,
		Runtime:   runtime.DispatchRuntime(settings.ContainerRuntime),
		HomeDir:   home,
		AgentHome: agentHome,
	}, nil
}

// Report summarizes the files an operation wrote.
type Report struct {
	Layout  project.Layout
	Written []string
	// Unknown lists selected server names the catalog does not define.
	Unknown []string
	Sync    *SyncReport
}

// withLock runs fn holding the project lock. Only init may create the
// .devcontainer directory.
func (e *Engine) withLock(layout project.Layout, create bool, fn func() error) error {
	if create {
		if err := os.MkdirAll(layout.Dir(), platform.DirPerm); err != nil {
			return errs.E(errs.PersistenceFailure, layout.Dir(), err)
		}
	} else if _, err := os.Stat(layout.Dir()); err != nil {
		return errs.Errorf(errs.NotInitialized, layout.Dir(), "run init first")
	}
	lock, ok, err := platform.TryAcquireLock(layout.LockPath())
	if err == nil && !ok {
		e.Logger.Info("waiting for another csb process", "lock", layout.LockPath())
		lock, err = platform.AcquireLock(layout.LockPath())
	}
	if err != nil {
		return errs.E(errs.PersistenceFailure, layout.LockPath(), err)
	}
	defer lock.Release()
	return fn()
}

// load reads the record, refusing to create a project implicitly.
func (e *Engine) load(layout project.Layout) (*project.Selection, error) {
	return project.Load(layout.SelectionPath())
}

// globalServers reads the host's global server document.
func (e *Engine) globalServers() (*mcp.ServerMap, error) {
	return mcp.LoadGlobal(userdata.GetGlobalServersPath(e.AgentHome))
}

// pending is a rendered artifact set not yet on disk.
type pending struct {
	report *Report
	docs   []artifacts.Document
}

// render produces the artifacts op permits without writing anything. When
// record is set the selection record joins the set.
func (e *Engine) render(op artifacts.Operation, layout project.Layout, sel *project.Selection, record bool, dockerfile string) (*pending, error) {
	in := artifacts.Inputs{
		Layout:           layout,
		Selection:        sel,
		HostSettingsPath: userdata.GetGlobalSettingsPath(e.AgentHome),
		SkipPermissions:  e.Settings.SkipPermissions,
		Dockerfile:       dockerfile,
	}
	if sel.IncludesGlobal() {
		global, err := e.globalServers()
		if err != nil {
			// A broken global document only loses the global layer.
			e.Logger.Warn("ignoring global server document", "path", userdata.GetGlobalServersPath(e.AgentHome), "err", err)
		}
		in.Global = global
	}

	res, err := artifacts.Generate(op, in)
	if err != nil {
		return nil, err
	}
	docs := res.Documents
	if record && !artifacts.Permits(artifacts.SelectionRecord, op, false) {
		data, err := sel.Marshal()
		if err != nil {
			return nil, errs.E(errs.PersistenceFailure, layout.SelectionPath(), err)
		}
		docs = append(docs, artifacts.Document{
			Artifact: artifacts.SelectionRecord,
			Path:     layout.SelectionPath(),
			Data:     data,
			Perm:     platform.FilePerm,
		})
	}
	return &pending{report: &Report{Layout: layout, Unknown: res.Unknown}, docs: docs}, nil
}

// commit writes a rendered set as one batch.
func (e *Engine) commit(p *pending) error {
	written, err := artifacts.Write(p.docs)
	if err != nil {
		return err
	}
	p.report.Written = written
	for _, d := range p.docs {
		e.Logger.Debug("wrote artifact", "artifact", d.Artifact.String(), "path", d.Path)
	}
	for _, name := range p.report.Unknown {
		e.Logger.Warn("selected server is not in the catalog", "server", name)
	}
	return nil
}

// generate renders and writes the artifacts op permits.
func (e *Engine) generate(op artifacts.Operation, layout project.Layout, sel *project.Selection, record bool, dockerfile string) (*Report, error) {
	p, err := e.render(op, layout, sel, record, dockerfile)
	if err != nil {
		return nil, err
	}
	if err := e.commit(p); err != nil {
		return nil, err
	}
	return p.report, nil
}

// layoutOf returns the layout of root made absolute.
func layoutOf(root string) project.Layout {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return project.NewLayout(root)
}
