package recreate

import (
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/claimpath"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/disclosure"
)

// Entry is the provenance of a single visited claim path: the ordered list
// of disclosures that must be revealed for that path to be visible.
type Entry struct {
	Path        claimpath.Path
	Disclosures []*disclosure.Disclosure
}

// ProvenanceMap is the ClaimPath -> ordered list of Disclosure map spec §3
// describes, keyed internally by Path.String() since claimpath.Path (a
// slice) is not itself a valid Go map key.
type ProvenanceMap struct {
	entries map[string]Entry
}

func newProvenanceMap() *ProvenanceMap {
	return &ProvenanceMap{entries: map[string]Entry{}}
}

func (pm *ProvenanceMap) set(path claimpath.Path, disclosures []*disclosure.Disclosure) {
	pm.entries[path.String()] = Entry{Path: path, Disclosures: disclosures}
}

// Get returns the provenance recorded for path, if any.
func (pm *ProvenanceMap) Get(path claimpath.Path) ([]*disclosure.Disclosure, bool) {
	e, ok := pm.entries[path.String()]
	if !ok {
		return nil, false
	}
	return e.Disclosures, true
}

// Entries returns every recorded (path, disclosures) pair. Iteration order
// is unspecified; callers that need a stable order should sort by
// Entry.Path.String().
func (pm *ProvenanceMap) Entries() []Entry {
	out := make([]Entry, 0, len(pm.entries))
	for _, e := range pm.entries {
		out = append(out, e)
	}
	return out
}

// ToDisclosureSet is the C7 operation "to_disclosure_set": the set union of
// provenance lists for every path satisfying predicate, deduplicated by the
// disclosure's encoded string.
func (pm *ProvenanceMap) ToDisclosureSet(predicate func(claimpath.Path) bool) []*disclosure.Disclosure {
	seen := map[string]*disclosure.Disclosure{}
	order := make([]string, 0)
	for _, e := range pm.entries {
		if !predicate(e.Path) {
			continue
		}
		for _, d := range e.Disclosures {
			if _, ok := seen[d.Encoded]; !ok {
				seen[d.Encoded] = d
				order = append(order, d.Encoded)
			}
		}
	}
	out := make([]*disclosure.Disclosure, 0, len(order))
	for _, k := range order {
		out = append(out, seen[k])
	}
	return out
}
