package lexical

import (
	"strings"

	"github.com/lifeinbox/lifeinbox/server/search/ranking"
	"github.com/lifeinbox/lifeinbox/store"
)

// PhoneticMatchScore is the fixed score assigned to phonetic candidates.
// It sits above typical fuzzy thresholds so a sounds-alike match surfaces,
// but below a strong edit-distance match so real text matches outrank it.
const PhoneticMatchScore = 0.6

// Matcher scores records against a query by fuzzy token matching. Stateless
// and safe for concurrent use.
type Matcher struct {
	minScore float64
}

// NewMatcher creates a matcher that drops candidates scoring below minScore.
func NewMatcher(minScore float64) *Matcher {
	return &Matcher{minScore: minScore}
}

// Search scores every record in the pool against the query and returns
// candidates at or above the matcher's threshold, in pool order. A record
// whose edit-distance score is weak but whose tokens sound like the query
// tokens is emitted as a phonetic candidate at the fixed phonetic score.
func (m *Matcher) Search(query string, pool []*store.Record) []ranking.MatchCandidate {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	queryCodes := make([]string, len(queryTokens))
	for i, t := range queryTokens {
		queryCodes[i] = PhoneticCode(t)
	}

	var candidates []ranking.MatchCandidate
	for _, record := range pool {
		if record == nil {
			continue
		}
		text := record.Content + " " + record.Summary
		textTokens := Tokenize(text)
		if len(textTokens) == 0 {
			continue
		}

		score := scoreTokens(queryTokens, textTokens)
		if score >= m.minScore {
			candidates = append(candidates, ranking.MatchCandidate{
				Record:    record,
				Score:     score,
				Strategy:  ranking.StrategyLexical,
				Highlight: m.Highlight(query, text),
			})
		}
		if score < PhoneticMatchScore && phoneticMatch(queryCodes, textTokens) {
			candidates = append(candidates, ranking.MatchCandidate{
				Record:   record,
				Score:    PhoneticMatchScore,
				Strategy: ranking.StrategyPhonetic,
			})
		}
	}
	return candidates
}

// scoreTokens averages, over the query tokens, each token's best similarity
// against any text token. A token pair whose lengths differ by more than
// half the longer token cannot score well and is skipped outright.
func scoreTokens(queryTokens, textTokens []string) float64 {
	var total float64
	for _, qt := range queryTokens {
		var best float64
		qlen := len([]rune(qt))
		for _, tt := range textTokens {
			tlen := len([]rune(tt))
			if diff := absInt(qlen - tlen); diff*2 > maxInt(qlen, tlen) {
				continue
			}
			if sim := Similarity(qt, tt); sim > best {
				best = sim
				if best == 1 {
					break
				}
			}
		}
		total += best
	}
	return total / float64(len(queryTokens))
}

// phoneticMatch reports whether every query token has some text token with
// an identical phonetic code.
func phoneticMatch(queryCodes []string, textTokens []string) bool {
	textCodes := make(map[string]struct{}, len(textTokens))
	for _, tt := range textTokens {
		if code := PhoneticCode(tt); code != "" {
			textCodes[code] = struct{}{}
		}
	}

	for _, qc := range queryCodes {
		if qc == "" {
			return false
		}
		if _, ok := textCodes[qc]; !ok {
			return false
		}
	}
	return true
}

// Highlight returns the first text token that best matches any query token,
// for building "matched on" hints in rendered output. Empty when nothing
// clears the threshold.
func (m *Matcher) Highlight(query, text string) string {
	queryTokens := Tokenize(query)
	var bestToken string
	var bestScore float64
	for _, tt := range Tokenize(text) {
		for _, qt := range queryTokens {
			if sim := Similarity(qt, tt); sim > bestScore {
				bestScore = sim
				bestToken = tt
			}
		}
	}
	if bestScore < m.minScore {
		return ""
	}
	return strings.ToLower(bestToken)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
