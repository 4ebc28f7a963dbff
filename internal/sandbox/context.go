package sandbox

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/csb-labs/csb/internal/artifacts"
	"github.com/csb-labs/csb/internal/contextsrc"
	"github.com/csb-labs/csb/internal/errs"
	"github.com/csb-labs/csb/internal/linker"
	"github.com/csb-labs/csb/internal/platform"
	"github.com/csb-labs/csb/internal/project"
	"github.com/csb-labs/csb/internal/staging"
	"github.com/spf13/afero"
)

// SyncReport describes a rebuilt staged tree.
type SyncReport struct {
	Discovery contextsrc.Discovery
	Items     []staging.Item
	Manifest  linker.Manifest
	Warnings  []staging.Warning
}

// Renamed returns the links exposed under an origin-qualified name.
func (r *SyncReport) Renamed() []linker.Link {
	var out []linker.Link
	for _, l := range r.Manifest.Links {
		if strings.HasPrefix(l.Link, linker.DocumentsDir+"/") {
			continue
		}
		if path.Base(l.Link) != path.Base(l.Target) {
			out = append(out, l)
		}
	}
	return out
}

// stage rebuilds the staged tree of layout from sel. The link manifest and
// setup script are written into the new tree before it replaces the old one.
// commit runs with the new tree in place; if it fails the old tree returns.
func (e *Engine) stage(layout project.Layout, sel *project.Selection, commit func() error) (*SyncReport, error) {
	report := &SyncReport{}
	if sel.Context.Enabled && sel.Context.Parents.AutoDiscover {
		report.Discovery = contextsrc.Discover(e.FS, layout.Root, sel.Context.Parents.MaxDepth, e.HomeDir)
	}
	var global map[contextsrc.Fragment][]string
	if sel.IncludesGlobal() {
		global = contextsrc.ScanGlobal(e.FS, e.AgentHome, sel.Context.Global.Components)
	}

	finalize := func(dir string, res *staging.Result) error {
		exposures := linker.Resolve(res.Items, global)
		report.Manifest = linker.BuildManifest(exposures, project.ContainerAgentHome, project.ContainerContextDir)

		data, err := report.Manifest.Marshal()
		if err != nil {
			return err
		}
		if err := afero.WriteFile(e.FS, filepath.Join(dir, project.LinkManifestFile), data, platform.FilePerm); err != nil {
			return errs.E(errs.PersistenceFailure, layout.LinkManifestPath(), err)
		}

		script, err := linker.Emit(report.Manifest)
		if err != nil {
			return err
		}
		scriptPath := filepath.Join(dir, project.ScriptFile)
		if err := afero.WriteFile(e.FS, scriptPath, script, platform.ExecPerm); err != nil {
			return errs.E(errs.PersistenceFailure, layout.ScriptPath(), err)
		}
		if err := e.FS.Chmod(scriptPath, platform.ExecPerm); err != nil {
			return errs.E(errs.PersistenceFailure, layout.ScriptPath(), err)
		}
		return nil
	}

	res, err := staging.Sync(e.FS, report.Discovery, sel.Context.Extra, layout.ContextDir(), staging.Options{
		Exclude:  e.Settings.Exclude,
		Finalize: finalize,
		Commit:   commit,
	})
	if err != nil {
		return nil, err
	}
	report.Items = res.Items
	report.Warnings = res.Warnings
	for _, w := range res.Warnings {
		e.Logger.Warn("skipped context source", "source", w.Source, "err", w.Err)
	}
	e.Logger.Debug("staged context", "items", len(res.Items), "links", len(report.Manifest.Links))
	return report, nil
}

// Sync rebuilds the staged tree and the artifacts that depend on it.
func (e *Engine) Sync(ctx context.Context, root string) (*Report, error) {
	layout := layoutOf(root)
	var report *Report
	err := e.withLock(layout, false, func() error {
		sel, err := e.load(layout)
		if err != nil {
			return err
		}
		report, err = e.syncLocked(layout, sel, false)
		return err
	})
	return report, err
}

// syncLocked rebuilds the staged tree and writes the sync artifacts, plus
// the record when it changed. Either both land or neither does.
func (e *Engine) syncLocked(layout project.Layout, sel *project.Selection, record bool) (*Report, error) {
	p, err := e.render(artifacts.OpSync, layout, sel, record, "")
	if err != nil {
		return nil, err
	}
	syncReport, err := e.stage(layout, sel, func() error { return e.commit(p) })
	if err != nil {
		return nil, err
	}
	p.report.Sync = syncReport
	return p.report, nil
}

// RefreshReport adds the in-container result to a sync.
type RefreshReport struct {
	*Report
	ContainerID string
	ExitCode    int
	Output      string
}

// Running reports whether a container was found.
func (r *RefreshReport) Running() bool { return r.ContainerID != "" }

// Refresh syncs and then runs the setup script inside the project's running
// container. Without a running container it is a plain sync.
func (e *Engine) Refresh(ctx context.Context, root string) (*RefreshReport, error) {
	report, err := e.Sync(ctx, root)
	if err != nil {
		return nil, err
	}
	out := &RefreshReport{Report: report}

	id, err := e.Runtime.ContainerID(ctx, report.Layout.Root)
	if err != nil {
		return out, fmt.Errorf("locating container: %w", err)
	}
	if id == "" {
		e.Logger.Info("no running container; links apply on next start")
		return out, nil
	}
	out.ContainerID = id

	res, err := e.Runtime.Exec(ctx, id, project.ContainerScriptPath)
	if err != nil {
		return out, fmt.Errorf("running setup script in %s: %w", id, err)
	}
	out.ExitCode = res.ExitCode
	out.Output = res.Stdout + res.Stderr
	if res.ExitCode != 0 {
		return out, fmt.Errorf("setup script exited with status %d", res.ExitCode)
	}
	return out, nil
}

// AddSource records an extra context source and syncs. The path must exist
// and be a document, fragment directory or context root.
func (e *Engine) AddSource(ctx context.Context, root, source string) (report *Report, added bool, err error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, false, err
	}
	if _, err := e.FS.Stat(abs); err != nil {
		return nil, false, errs.E(errs.NotFound, abs, err)
	}
	if _, _, err := contextsrc.Classify(e.FS, abs); err != nil {
		return nil, false, err
	}

	layout := layoutOf(root)
	err = e.withLock(layout, false, func() error {
		sel, err := e.load(layout)
		if err != nil {
			return err
		}
		added = sel.AddExtraSource(abs)
		report, err = e.syncLocked(layout, sel, added)
		return err
	})
	return report, added, err
}

// RemoveSource drops an extra context source and syncs, removing its staged
// copy.
func (e *Engine) RemoveSource(ctx context.Context, root, source string) (*Report, error) {
	layout := layoutOf(root)
	var report *Report
	err := e.withLock(layout, false, func() error {
		sel, err := e.load(layout)
		if err != nil {
			return err
		}
		target := source
		if !sel.HasExtraSource(target) {
			if abs, err := filepath.Abs(source); err == nil {
				target = abs
			}
		}
		if err := sel.RemoveExtraSource(target); err != nil {
			return err
		}
		report, err = e.syncLocked(layout, sel, true)
		return err
	})
	return report, err
}
