package contextsrc

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind classifies a context source path.
type Kind int

const (
	Document Kind = iota
	FragmentDir
	ContextRoot
)

func (k Kind) String() string {
	switch k {
	case Document:
		return "document"
	case FragmentDir:
		return "fragments"
	case ContextRoot:
		return "context root"
	}
	return "unknown"
}

// Fragment names a kind of fragment directory.
type Fragment string

const (
	Skills   Fragment = "skills"
	Agents   Fragment = "agents"
	Commands Fragment = "commands"
	Rules    Fragment = "rules"
)

// Fragments lists fragment kinds in scan order.
var Fragments = []Fragment{Skills, Agents, Commands, Rules}

// ParseFragment maps a directory name to its fragment kind.
func ParseFragment(name string) (Fragment, bool) {
	for _, f := range Fragments {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// ItemsAreDirs reports whether items of this kind are directories (skills)
// rather than markdown files.
func (f Fragment) ItemsAreDirs() bool { return f == Skills }

// Well-known document names.
const (
	InstructionsFile = "CLAUDE.md"
	LocalFile        = "CLAUDE.local.md"
	AgentDir         = ".claude"
)

// OriginKind says where a source came from.
type OriginKind int

const (
	Global OriginKind = iota
	Parent
	Extra
)

// Origin locates a source: the global agent home, the ancestor at Level, or
// the extra source at Index whose path hashes to Hash.
type Origin struct {
	Kind  OriginKind
	Level int
	Index int
	Hash  string
}

// ParentOrigin returns the origin of ancestor level n.
func ParentOrigin(n int) Origin { return Origin{Kind: Parent, Level: n} }

// ExtraOrigin returns the origin of the extra source at index with path.
func ExtraOrigin(index int, path string) Origin {
	return Origin{Kind: Extra, Index: index, Hash: PathHash(path)}
}

func (o Origin) String() string {
	switch o.Kind {
	case Global:
		return "global"
	case Parent:
		return fmt.Sprintf("level-%d", o.Level)
	case Extra:
		return "extra-" + o.Hash
	}
	return "unknown"
}

// Source is one discovered context source.
type Source struct {
	Path     string
	Kind     Kind
	Fragment Fragment // set when Kind is FragmentDir
	Origin   Origin
}

// Identifier returns the display identifier of an item: its base name
// without extension.
func Identifier(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// ItemIdentifier returns the identifier of an item of kind f. Directory
// items keep their whole name; a dot in a skill name is not an extension.
func (f Fragment) ItemIdentifier(name string) string {
	if f.ItemsAreDirs() {
		return filepath.Base(name)
	}
	return Identifier(name)
}

// PathHash returns a short stable hash of a path, used to tell extra
// sources apart.
func PathHash(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return hex.EncodeToString(sum[:])[:8]
}

// SanitizeName reduces name to characters safe for a directory name.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == '.' && b.Len() > 0:
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := strings.Trim(b.String(), "._")
	if s == "" {
		return "source"
	}
	return s
}
