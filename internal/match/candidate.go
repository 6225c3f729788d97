package match

import (
	"sort"
	"strings"
)

// DefaultMinScore is the similarity floor below which a name is not offered
// as a suggestion.
const DefaultMinScore = 0.5

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name  string
	Score float64
	// Distance is the edit distance between the normalized forms.
	Distance int
}

// CandidateList is sorted by descending score, then by name.
type CandidateList []Candidate

func (c CandidateList) Len() int      { return len(c) }
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Names returns the candidate names in rank order.
func (c CandidateList) Names() []string {
	out := make([]string, len(c))
	for i, cand := range c {
		out[i] = cand.Name
	}

	return out
}

// Top returns at most n leading candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}

	return c[:n]
}

// RankCandidates scores every known name against name. Exact matches are
// skipped: a name that matches is not unknown.
func RankCandidates(name string, known []string) CandidateList {
	norm := NormalizeIdent(name)

	out := make(CandidateList, 0, len(known))

	for _, k := range known {
		if k == name {
			continue
		}

		kn := NormalizeIdent(k)

		score := Similarity(norm, kn)
		// a pure case or separator difference is as good as it gets
		if kn == norm {
			score = 1.0
		} else if norm != "" && strings.Contains(kn, norm) {
			score = max(score, DefaultMinScore)
		}

		out = append(out, Candidate{
			Name:     k,
			Score:    score,
			Distance: Levenshtein(norm, kn),
		})
	}

	sort.Sort(out)

	return out
}

// Suggest returns up to limit known names that look like name, best first.
func Suggest(name string, known []string, limit int) []string {
	ranked := RankCandidates(name, known)

	kept := ranked[:0]

	for _, c := range ranked {
		if c.Score >= DefaultMinScore {
			kept = append(kept, c)
		}
	}

	return kept.Top(limit).Names()
}
