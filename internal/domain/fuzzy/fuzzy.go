// Package fuzzy implements the topic search matcher: substring matches rank
// by position, subsequence matches rank by gap cost behind all substring
// matches.
package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// NoMatch is the sentinel returned when query does not match candidate.
const NoMatch = -1

const (
	// gapCost is charged per candidate character skipped between two
	// consecutive matched query characters.
	gapCost = 10

	// subsequencePenalty pushes subsequence-only matches behind substring
	// matches. Substring scores are first-occurrence indexes, so this holds
	// only while candidates stay shorter than 100 characters; a substring
	// occurring very late in a longer candidate would outrank a tight
	// subsequence. Known approximation, kept as-is.
	subsequencePenalty = 100
)

// Match scores query against candidate. Lower is better. An empty query
// matches everything at 0. A contiguous substring match returns the rune
// index of its first occurrence. Otherwise a left-to-right subsequence walk
// charges gapCost per skipped character between consecutive matches and adds
// subsequencePenalty; if the query is not fully consumed, NoMatch.
func Match(query, candidate string) int {
	q := strings.ToLower(query)
	if q == "" {
		return 0
	}
	c := strings.ToLower(candidate)

	if i := strings.Index(c, q); i >= 0 {
		return utf8.RuneCountInString(c[:i])
	}

	qr := []rune(q)
	qi := 0
	last := -1
	score := 0
	for i, r := range []rune(c) {
		if qi < len(qr) && r == qr[qi] {
			if last >= 0 {
				score += gapCost * (i - last - 1)
			}
			last = i
			qi++
		}
	}
	if qi < len(qr) {
		return NoMatch
	}
	return score + subsequencePenalty
}

// Candidate is a searchable topic label with the slug used to build the
// fetch key for that topic.
type Candidate struct {
	Label string
	Slug  string
}

// Ranked is a candidate that matched a query, with its score.
type Ranked struct {
	Candidate
	Score int
}

// Rank filters candidates to those matching query and orders them by
// ascending score. Ties keep the input order, so callers control the
// baseline ordering (typically alphabetical).
func Rank(query string, candidates []Candidate) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		score := Match(query, c.Label)
		if score == NoMatch {
			continue
		}
		ranked = append(ranked, Ranked{Candidate: c, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})
	return ranked
}
