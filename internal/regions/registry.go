package regions

import (
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Registry resolves county and UAT names to their numeric ids. Name
// matching is case- and diacritic-insensitive, so user input like
// "arges" resolves "Argeș" from the reference sheet.
type Registry struct {
	entries []Entry
	byKey   map[string]*Entry
}

// NewRegistry builds a Registry from loaded entries, keeping file order.
func NewRegistry(entries []Entry) *Registry {
	r := &Registry{
		entries: entries,
		byKey:   make(map[string]*Entry, len(entries)),
	}
	for i := range entries {
		key := foldKey(entries[i].County) + "|" + foldKey(entries[i].UAT)
		if _, ok := r.byKey[key]; !ok {
			r.byKey[key] = &r.entries[i]
		}
	}
	return r
}

// Counties returns the distinct county names in file order.
func (r *Registry) Counties() []string {
	seen := make(map[string]bool)
	var counties []string
	for _, e := range r.entries {
		key := foldKey(e.County)
		if seen[key] {
			continue
		}
		seen[key] = true
		counties = append(counties, e.County)
	}
	return counties
}

// UATs returns the entries belonging to the given county.
func (r *Registry) UATs(county string) []Entry {
	key := foldKey(county)
	var out []Entry
	for _, e := range r.entries {
		if foldKey(e.County) == key {
			out = append(out, e)
		}
	}
	return out
}

// Resolve finds the entry for a county / UAT name pair.
func (r *Registry) Resolve(county, uat string) (*Entry, error) {
	if e, ok := r.byKey[foldKey(county)+"|"+foldKey(uat)]; ok {
		return e, nil
	}
	if len(r.UATs(county)) == 0 {
		return nil, eris.Errorf("regions: unknown county %q", county)
	}
	return nil, eris.Errorf("regions: unknown UAT %q in county %q", uat, county)
}

// Len returns the number of reference entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// diacriticStripper removes combining marks after NFD decomposition,
// turning "Argeș" into "Arges".
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// foldKey normalizes a name for matching: trimmed, diacritic-stripped,
// lowercased.
func foldKey(s string) string {
	stripped, _, err := transform.String(diacriticStripper, strings.TrimSpace(s))
	if err != nil {
		stripped = strings.TrimSpace(s)
	}
	return strings.ToLower(stripped)
}
