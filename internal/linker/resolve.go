package linker

import (
	"fmt"
	"sort"

	"github.com/csb-labs/csb/internal/contextsrc"
	"github.com/csb-labs/csb/internal/staging"
)

// DocumentsDir is the agent-home directory that receives staged documents.
const DocumentsDir = "parents"

// Exposure is a staged item and the path it is linked under, relative to the
// agent home.
type Exposure struct {
	Item     staging.Item
	LinkPath string
	Renamed  bool
}

// Resolve assigns a link path to every staged item. global holds the
// identifiers the agent home already provides per fragment kind.
func Resolve(items []staging.Item, global map[contextsrc.Fragment][]string) []Exposure {
	claimed := map[contextsrc.Fragment]map[string]bool{}
	claim := func(f contextsrc.Fragment, id string) {
		if claimed[f] == nil {
			claimed[f] = map[string]bool{}
		}
		claimed[f][id] = true
	}
	for f, ids := range global {
		for _, id := range ids {
			claim(f, id)
		}
	}

	ordered := make([]staging.Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(ordered[i].Origin) < rank(ordered[j].Origin)
	})

	exposures := make([]Exposure, 0, len(ordered))
	for _, it := range ordered {
		if it.Kind == contextsrc.Document {
			exposures = append(exposures, Exposure{
				Item:     it,
				LinkPath: DocumentsDir + "/" + it.DisplayName,
			})
			continue
		}

		name, renamed := it.Name, false
		if claimed[it.Fragment][it.Identifier] {
			name, renamed = it.DisplayName, true
			for n := 2; claimed[it.Fragment][it.Fragment.ItemIdentifier(name)]; n++ {
				name = staging.SuffixedName(it.Fragment, it.DisplayName, fmt.Sprint(n))
			}
		}
		claim(it.Fragment, it.Fragment.ItemIdentifier(name))

		exposures = append(exposures, Exposure{
			Item:     it,
			LinkPath: string(it.Fragment) + "/" + name,
			Renamed:  renamed,
		})
	}
	return exposures
}

// rank orders origins by locality: extra sources first in list order, then
// ancestor levels nearest first.
func rank(o contextsrc.Origin) int {
	switch o.Kind {
	case contextsrc.Extra:
		return o.Index
	case contextsrc.Parent:
		return 1<<20 + o.Level
	}
	return -1
}
