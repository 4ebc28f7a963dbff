package artifacts

import "fmt"

// Artifact identifies one generated file.
type Artifact int

const (
	ContainerSpec Artifact = iota
	ImageBuild
	StaticServers
	RuntimeServerDoc
	SettingsOverlayDoc
	SelectionRecord
	Gitignore
)

var artifactNames = [...]string{
	ContainerSpec:      "container spec",
	ImageBuild:         "image build file",
	StaticServers:      "static server document",
	RuntimeServerDoc:   "runtime server document",
	SettingsOverlayDoc: "settings overlay",
	SelectionRecord:    "selection record",
	Gitignore:          "gitignore",
}

func (a Artifact) String() string {
	if int(a) < len(artifactNames) {
		return artifactNames[a]
	}
	return fmt.Sprintf("artifact(%d)", int(a))
}

// All lists every artifact in generation order.
var All = []Artifact{SelectionRecord, ImageBuild, ContainerSpec, StaticServers, RuntimeServerDoc, SettingsOverlayDoc, Gitignore}

// Operation is the engine operation an artifact set is generated for.
type Operation int

const (
	// OpInit creates the project from scratch.
	OpInit Operation = iota
	// OpUpdate regenerates from the saved selection record.
	OpUpdate
	// OpMutate follows a selection change (server add, add-custom, remove).
	OpMutate
	// OpSync follows a context sync or refresh.
	OpSync
)

func (o Operation) String() string {
	switch o {
	case OpInit:
		return "init"
	case OpUpdate:
		return "update"
	case OpMutate:
		return "mutate"
	case OpSync:
		return "sync"
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Rule says whether an artifact is written for an operation.
type Rule int

const (
	Skip Rule = iota
	WriteAlways
	// WriteIfGlobal writes only when the project includes the global agent
	// configuration.
	WriteIfGlobal
)

var policy = map[Artifact][4]Rule{
	//                    init         update       mutate       sync
	ContainerSpec:      {WriteAlways, WriteAlways, WriteAlways, Skip},
	ImageBuild:         {WriteAlways, Skip, Skip, Skip},
	StaticServers:      {WriteAlways, WriteAlways, WriteAlways, Skip},
	RuntimeServerDoc:   {WriteAlways, WriteAlways, WriteAlways, WriteIfGlobal},
	SettingsOverlayDoc: {WriteAlways, WriteAlways, WriteAlways, WriteAlways},
	SelectionRecord:    {WriteAlways, Skip, Skip, Skip},
	Gitignore:          {WriteAlways, Skip, Skip, Skip},
}

// Policy returns the overwrite rule of a for op.
func Policy(a Artifact, op Operation) Rule {
	rules, ok := policy[a]
	if !ok || op < OpInit || op > OpSync {
		return Skip
	}
	return rules[op]
}

// Permits reports whether a is written for op given the project's global
// include flag.
func Permits(a Artifact, op Operation, includeGlobal bool) bool {
	switch Policy(a, op) {
	case WriteAlways:
		return true
	case WriteIfGlobal:
		return includeGlobal
	}
	return false
}
