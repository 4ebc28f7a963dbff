package staging

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/csb-labs/csb/internal/contextsrc"
	"github.com/csb-labs/csb/internal/errs"
	"github.com/csb-labs/csb/internal/platform"
	"github.com/spf13/afero"
)

// Top-level directories of the staged tree.
const (
	ParentsDir = "parents"
	ExtraDir   = "extra"
)

// Item is one staged, exposable piece of context.
type Item struct {
	SourcePath string
	// StagedPath is slash-separated and relative to the staged tree root.
	StagedPath string
	Kind       contextsrc.Kind // Document, or FragmentDir for an item inside one
	Fragment   contextsrc.Fragment
	Name       string
	Identifier string
	// DisplayName is the origin-qualified name this item is exposed under
	// when its plain name is already taken.
	DisplayName string
	Origin      contextsrc.Origin
}

// Warning records a source that was skipped.
type Warning struct {
	Source string
	Err    error
}

func (w Warning) Error() string { return fmt.Sprintf("skipping %s: %v", w.Source, w.Err) }

// Result describes a completed sync.
type Result struct {
	Root     string
	Items    []Item
	Warnings []Warning
}

// Options tune a sync.
type Options struct {
	// Exclude are doublestar patterns matched against paths relative to each
	// copied directory. Nil means DefaultExclude.
	Exclude []string
	// Finalize runs against the freshly built tree before it replaces the
	// previous one; an error aborts the sync and keeps the previous tree.
	Finalize func(dir string, res *Result) error
	// Commit runs once the new tree is in place. An error puts the previous
	// tree back and is returned unchanged.
	Commit func() error
}

// Sync rebuilds destRoot from the discovered ancestor sources and the extra
// source paths. Sources that cannot be read are skipped with a warning.
func Sync(fsys afero.Fs, d contextsrc.Discovery, extras []string, destRoot string, opts Options) (*Result, error) {
	patterns := opts.Exclude
	if patterns == nil {
		patterns = DefaultExclude
	}
	ex, err := newExcluder(patterns)
	if err != nil {
		return nil, err
	}

	parent := filepath.Dir(destRoot)
	if err := fsys.MkdirAll(parent, platform.DirPerm); err != nil {
		return nil, errs.E(errs.PersistenceFailure, parent, err)
	}
	tmp, err := afero.TempDir(fsys, parent, "."+filepath.Base(destRoot)+"-")
	if err != nil {
		return nil, errs.E(errs.PersistenceFailure, destRoot, err)
	}
	committed := false
	defer func() {
		if !committed {
			fsys.RemoveAll(tmp)
		}
	}()

	b := &builder{fsys: fsys, root: tmp, ex: ex, res: &Result{Root: destRoot}}
	for _, level := range d.Levels {
		dir := path.Join(ParentsDir, fmt.Sprintf("level-%d", level.Number))
		for _, src := range level.Sources {
			b.stage(src, dir)
		}
	}
	b.stageExtras(extras)

	if err := fsys.MkdirAll(filepath.Join(tmp, ParentsDir), platform.DirPerm); err != nil {
		return nil, errs.E(errs.PersistenceFailure, destRoot, err)
	}
	if opts.Finalize != nil {
		if err := opts.Finalize(tmp, b.res); err != nil {
			return nil, err
		}
	}

	var commitErr error
	commit := func() error {
		if opts.Commit == nil {
			return nil
		}
		commitErr = opts.Commit()
		return commitErr
	}
	if err := platform.ReplaceDir(fsys, tmp, destRoot, commit); err != nil {
		if commitErr != nil {
			return nil, commitErr
		}
		return nil, errs.E(errs.PersistenceFailure, destRoot, err)
	}
	committed = true
	return b.res, nil
}

type builder struct {
	fsys afero.Fs
	root string
	ex   *excluder
	res  *Result
}

func (b *builder) warn(source string, err error) {
	b.res.Warnings = append(b.res.Warnings, Warning{Source: source, Err: err})
}

func (b *builder) stageExtras(extras []string) {
	for i, p := range extras {
		origin := contextsrc.ExtraOrigin(i, p)
		kind, fragment, err := contextsrc.Classify(b.fsys, p)
		if err != nil {
			b.warn(p, err)
			continue
		}

		slot := path.Join(ExtraDir, contextsrc.SanitizeName(filepath.Base(p))+"-"+origin.Hash)
		switch kind {
		case contextsrc.Document:
			b.stage(contextsrc.Source{Path: p, Kind: kind, Origin: origin}, slot)
		case contextsrc.FragmentDir:
			b.stage(contextsrc.Source{Path: p, Kind: kind, Fragment: fragment, Origin: origin}, slot)
		case contextsrc.ContextRoot:
			sources := contextsrc.ScanRoot(b.fsys, p, origin)
			if len(sources) == 0 {
				b.warn(p, errs.Errorf(errs.UnreadableSource, p, "no context found"))
			}
			for _, src := range sources {
				b.stage(src, slot)
			}
		}
	}
}

// stage copies one source below dir (relative to the tree root) and records
// its items.
func (b *builder) stage(src contextsrc.Source, dir string) {
	switch src.Kind {
	case contextsrc.Document:
		name := filepath.Base(src.Path)
		rel := path.Join(dir, name)
		if err := copyFile(b.fsys, src.Path, b.abs(rel)); err != nil {
			b.warn(src.Path, errs.E(errs.UnreadableSource, src.Path, err))
			return
		}
		b.res.Items = append(b.res.Items, Item{
			SourcePath:  src.Path,
			StagedPath:  rel,
			Kind:        contextsrc.Document,
			Name:        name,
			Identifier:  contextsrc.Identifier(name),
			DisplayName: documentDisplayName(src.Origin, name),
			Origin:      src.Origin,
		})

	case contextsrc.FragmentDir:
		rel := path.Join(dir, string(src.Fragment))
		items, err := contextsrc.ListItems(b.fsys, src.Path, src.Fragment)
		if err == nil {
			err = copyDir(b.fsys, src.Path, b.abs(rel), b.ex)
		}
		if err != nil {
			b.fsys.RemoveAll(b.abs(rel))
			var e *errs.Error
			if !errors.As(err, &e) {
				err = errs.E(errs.UnreadableSource, src.Path, err)
			}
			b.warn(src.Path, err)
			return
		}
		for _, it := range items {
			if b.ex.match(it.Name) {
				continue
			}
			b.res.Items = append(b.res.Items, Item{
				SourcePath:  filepath.Join(src.Path, it.Name),
				StagedPath:  path.Join(rel, it.Name),
				Kind:        contextsrc.FragmentDir,
				Fragment:    src.Fragment,
				Name:        it.Name,
				Identifier:  it.Identifier,
				DisplayName: SuffixedName(src.Fragment, it.Name, Suffix(src.Origin)),
				Origin:      src.Origin,
			})
		}
	}
}

func (b *builder) abs(rel string) string {
	return filepath.Join(b.root, filepath.FromSlash(rel))
}

// Suffix returns the disambiguating suffix for an origin: "level-<n>" for
// ancestors and the path hash for extra sources.
func Suffix(o contextsrc.Origin) string {
	switch o.Kind {
	case contextsrc.Parent:
		return fmt.Sprintf("level-%d", o.Level)
	case contextsrc.Extra:
		return o.Hash
	}
	return ""
}

// SuffixedName inserts "-<suffix>" after the identifier of name, an item
// of kind f.
func SuffixedName(f contextsrc.Fragment, name, suffix string) string {
	if suffix == "" {
		return name
	}
	id := f.ItemIdentifier(name)
	return id + "-" + suffix + name[len(id):]
}

func documentDisplayName(o contextsrc.Origin, name string) string {
	switch o.Kind {
	case contextsrc.Extra:
		return "extra-" + o.Hash + "-" + name
	default:
		return Suffix(o) + "-" + name
	}
}
