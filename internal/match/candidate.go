package match

import "sort"

// DefaultMinScore is the minimum similarity for a candidate to be suggested.
const DefaultMinScore = 0.6

// Candidate is a field name scored against a target name.
type Candidate struct {
	Name string
	// Score is the best of the plain and suffix-stripped similarities (0-1).
	Score float64
}

// CandidateList is a list of candidates ordered best first.
type CandidateList []Candidate

// RankCandidates scores every name against target and returns them sorted by
// score descending, then by name.
func RankCandidates(target string, names []string) CandidateList {
	targetNorm := NormalizeIdent(target)
	targetStripped := NormalizeIdentWithSuffixStrip(target)

	candidates := make(CandidateList, 0, len(names))

	for _, name := range names {
		norm := NormalizeIdent(name)

		score := LevenshteinNormalized(norm, targetNorm)
		if stripped := LevenshteinNormalized(NormalizeIdentWithSuffixStrip(name), targetStripped); stripped > score {
			score = stripped
		}

		candidates = append(candidates, Candidate{Name: name, Score: score})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns the name closest to target when it scores at least
// DefaultMinScore. An exact match of target is never suggested.
func Suggest(target string, names []string) (string, bool) {
	for _, c := range RankCandidates(target, names).AboveThreshold(DefaultMinScore) {
		if c.Name != target {
			return c.Name, true
		}
	}

	return "", false
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}
