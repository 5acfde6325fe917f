package search

import (
	"github.com/nikbrunner/abm/internal/view"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Row            view.Row
	MatchedIndexes []int
	Score          int
}

// rowNames implements fuzzy.Source for a row slice.
type rowNames []view.Row

func (rn rowNames) String(i int) string {
	return rn[i].Name
}

func (rn rowNames) Len() int {
	return len(rn)
}

// FuzzySearchRows searches rows by display name using fuzzy matching.
// Invalid and placeholder rows are skipped. Returns results sorted by match
// score (best first).
func FuzzySearchRows(rows []view.Row, query string) []SearchResult {
	if query == "" {
		return nil
	}

	candidates := make(rowNames, 0, len(rows))
	for _, r := range rows {
		if r.Valid && !r.Placeholder {
			candidates = append(candidates, r)
		}
	}

	matches := fuzzy.FindFrom(query, candidates)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Row:            candidates[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// Exact returns the result whose name equals the query, if there is exactly
// one such result.
func Exact(results []SearchResult, query string) (SearchResult, bool) {
	var found SearchResult
	n := 0
	for _, r := range results {
		if r.Row.Name == query {
			found = r
			n++
		}
	}
	return found, n == 1
}
