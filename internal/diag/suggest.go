package diag

import "github.com/sahilm/fuzzy"

// Suggest returns the best "did you mean" candidate for an unrecognized word,
// or "" when nothing ranks. Candidates are matched fuzzily so prefixes and
// near-misses ("gurd" for "guard", "struc" for "struct") still rank.
func Suggest(input string, candidates []string) string {
	if len(input) < 2 {
		return ""
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	best := matches[0]
	// A one-character pattern hit inside a long word is noise, not a typo.
	if len(best.MatchedIndexes)*2 < len(best.Str) {
		return ""
	}
	return best.Str
}
