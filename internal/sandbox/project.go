package sandbox

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/csb-labs/csb/internal/artifacts"
	"github.com/csb-labs/csb/internal/errs"
	"github.com/csb-labs/csb/internal/project"
)

// InitOptions configure a new project.
type InitOptions struct {
	// Servers are the catalog servers to select. Nil means the configured
	// default servers.
	Servers []string
	// Force replaces an existing project.
	Force bool
	// Dockerfile is copied instead of the built-in template when set.
	Dockerfile string
	// WithContext enables global and ancestor context.
	WithContext bool
	MaxDepth    int
}

// Init creates the .devcontainer directory of root from scratch.
func (e *Engine) Init(ctx context.Context, root string, opts InitOptions) (*Report, error) {
	layout := layoutOf(root)

	servers := opts.Servers
	if servers == nil {
		servers = e.Settings.DefaultServers
	}
	sel := project.NewSelection(nil, opts.WithContext, opts.MaxDepth)
	for _, name := range servers {
		if _, err := sel.AddBuiltin(name); err != nil {
			return nil, err
		}
	}
	if opts.Dockerfile != "" {
		abs, err := filepath.Abs(opts.Dockerfile)
		if err != nil {
			return nil, err
		}
		opts.Dockerfile = abs
	}

	_, statErr := os.Stat(layout.Dir())
	created := errors.Is(statErr, fs.ErrNotExist)

	var report *Report
	err := e.withLock(layout, true, func() error {
		if _, err := os.Stat(layout.SelectionPath()); err == nil && !opts.Force {
			return errs.Errorf(errs.AlreadyInitialized, layout.Dir(), "use --force to overwrite")
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errs.E(errs.UnreadableSource, layout.SelectionPath(), err)
		}

		// Rendering first surfaces a bad Dockerfile before anything is staged.
		p, err := e.render(artifacts.OpInit, layout, sel, false, opts.Dockerfile)
		if err != nil {
			return err
		}
		if sel.Context.Enabled {
			syncReport, err := e.stage(layout, sel, func() error { return e.commit(p) })
			if err != nil {
				return err
			}
			p.report.Sync = syncReport
		} else if err := e.commit(p); err != nil {
			return err
		}
		report = p.report
		return nil
	})
	if err != nil {
		if created {
			os.RemoveAll(layout.Dir())
		}
		return nil, err
	}
	e.Logger.Info("initialized sandbox", "path", layout.Dir(), "servers", len(sel.Servers))
	return report, nil
}

// Update regenerates the artifacts from the saved record. The image build
// file is never touched.
func (e *Engine) Update(ctx context.Context, root string) (*Report, error) {
	layout := layoutOf(root)
	var report *Report
	err := e.withLock(layout, false, func() error {
		sel, err := e.load(layout)
		if err != nil {
			return err
		}
		report, err = e.generate(artifacts.OpUpdate, layout, sel, false, "")
		return err
	})
	return report, err
}

// Selection returns the saved record of root.
func (e *Engine) Selection(root string) (*project.Selection, error) {
	return e.load(layoutOf(root))
}

// mutate applies change to the record and regenerates. When change reports
// no change nothing is written.
func (e *Engine) mutate(root string, change func(*project.Selection) (bool, error)) (*Report, bool, error) {
	layout := layoutOf(root)
	var report *Report
	changed := false
	err := e.withLock(layout, false, func() error {
		sel, err := e.load(layout)
		if err != nil {
			return err
		}
		if changed, err = change(sel); err != nil || !changed {
			return err
		}
		report, err = e.generate(artifacts.OpMutate, layout, sel, true, "")
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if report == nil {
		report = &Report{Layout: layout}
	}
	return report, changed, nil
}

// AddServer selects a catalog server. added is false when it was already
// selected.
func (e *Engine) AddServer(ctx context.Context, root, name string) (report *Report, added bool, err error) {
	return e.mutate(root, func(sel *project.Selection) (bool, error) {
		return sel.AddBuiltin(name)
	})
}

// AddCustomServer defines a project-specific server.
func (e *Engine) AddCustomServer(ctx context.Context, root, name, command string, args, env []string) (*Report, error) {
	report, _, err := e.mutate(root, func(sel *project.Selection) (bool, error) {
		return true, sel.AddCustom(name, command, args, env)
	})
	return report, err
}

// RemoveServer removes a selected catalog server or a custom server.
func (e *Engine) RemoveServer(ctx context.Context, root, name string) (*Report, error) {
	report, _, err := e.mutate(root, func(sel *project.Selection) (bool, error) {
		return true, sel.RemoveServer(name)
	})
	return report, err
}
