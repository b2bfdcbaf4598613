package routing

import (
	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/preferences"
)

// CandidateOrdering returns the full engine preference order for a language pair.
//
// The source entry falls back to the wildcard entry, its default ordering falls back to
// the global default, and the most specific ordering is filled up with the source default
// and then the global default, skipping names already present. An empty source language
// is an ordinary key.
func CandidateOrdering(table preferences.Table, def []string, from, to string) []string {
	fromEntry, ok := table[from]
	if !ok {
		fromEntry = table[preferences.Wildcard]
	}

	fromDefault, ok := fromEntry[preferences.Wildcard]
	if !ok {
		fromDefault = def
	}

	specified, ok := fromEntry[to]
	if !ok {
		specified = fromDefault
	}

	ordering := make([]string, 0, len(specified)+len(def))
	seen := make(map[string]struct{}, len(specified)+len(def))
	for _, list := range [][]string{specified, fromDefault, def} {
		for _, name := range list {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			ordering = append(ordering, name)
		}
	}

	return ordering
}

// BestProvider returns the first engine of the candidate ordering that is available.
func BestProvider[H any](
	available map[string]H,
	from, to string,
	table preferences.Table,
	def []string,
) (H, error) {
	for _, name := range CandidateOrdering(table, def, from, to) {
		if handle, ok := available[name]; ok {
			return handle, nil
		}
	}

	var zero H
	return zero, domain.ErrNoViableProvider
}
