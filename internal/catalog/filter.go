package catalog

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
)

// FilterConfig bundles tuning parameters for in-memory search.
type FilterConfig struct {
	MinCoverage float64 // minimal share of the query that must match
	MaxSpread   int     // maximal distance between first and last match index
	MaxResults  int     // upper limit of returned results
	MaxTypos    int     // edit distance accepted by the typo fallback, 0 disables it
}

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{MinCoverage: 0.8, MaxSpread: 24, MaxResults: 500, MaxTypos: 2}
}

// search returns the indices of base matching q. Substring hits win, then
// fuzzy matches pruned by coverage and spread, then words within MaxTypos
// edits of q.
func search(q string, base []string, cfg FilterConfig) []int {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		idx := make([]int, len(base))
		for i := range base {
			idx[i] = i
		}
		return idx
	}
	if hits := filterBySubstring(q, base, cfg); len(hits) > 0 {
		return hits
	}
	if hits := filterByFuzzy(q, base, cfg); len(hits) > 0 {
		return hits
	}
	return filterByTypos(q, base, cfg)
}

func filterBySubstring(q string, base []string, cfg FilterConfig) []int {
	sub := make([]int, 0, min(cfg.MaxResults, len(base)))
	for i, s := range base {
		if strings.Contains(s, q) {
			sub = append(sub, i)
			if len(sub) >= cfg.MaxResults {
				break
			}
		}
	}
	return sub
}

// filterByFuzzy keeps fuzzy matches that cover enough of q within a tight
// span. Results keep the matcher's score order.
func filterByFuzzy(q string, base []string, cfg FilterConfig) []int {
	matches := fuzzy.Find(q, base)
	pruned := make([]int, 0, len(matches))
	for _, mt := range matches {
		if matchCoverage(q, mt) < cfg.MinCoverage {
			continue
		}
		if matchSpread(mt) > cfg.MaxSpread {
			continue
		}
		pruned = append(pruned, mt.Index)
		if len(pruned) >= cfg.MaxResults {
			break
		}
	}
	return pruned
}

// filterByTypos matches any word of an entry within cfg.MaxTypos edits of q,
// closest first.
func filterByTypos(q string, base []string, cfg FilterConfig) []int {
	if cfg.MaxTypos <= 0 {
		return nil
	}
	type hit struct{ idx, dist int }
	var hits []hit
	for i, s := range base {
		best := -1
		for _, w := range strings.Fields(s) {
			d := levenshtein.ComputeDistance(q, w)
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 && best <= cfg.MaxTypos && best < len([]rune(q)) {
			hits = append(hits, hit{i, best})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return a.dist - b.dist })
	out := make([]int, 0, min(len(hits), cfg.MaxResults))
	for _, h := range hits {
		if len(out) >= cfg.MaxResults {
			break
		}
		out = append(out, h.idx)
	}
	return out
}

// matchCoverage returns the ratio of matched characters to the query length.
func matchCoverage(q string, m fuzzy.Match) float64 {
	if len(q) == 0 {
		return 1
	}
	return float64(len(m.MatchedIndexes)) / float64(len(q))
}

// matchSpread returns the distance between the first and last matched index.
func matchSpread(m fuzzy.Match) int {
	if len(m.MatchedIndexes) == 0 {
		return 0
	}
	return m.MatchedIndexes[len(m.MatchedIndexes)-1] - m.MatchedIndexes[0]
}
