package diagnostics

import (
	"sort"

	"github.com/xrash/smetrics"
)

// Similarity thresholds on the normalized Jaro-Winkler score. A candidate
// at or below listThreshold is noise; autocorrectThreshold gates the single
// confident "did you mean X" replacement.
const (
	listThreshold        = 0.6
	autocorrectThreshold = 0.75
)

// Keywords lists every reserved word of the language, in suggestion order.
var Keywords = []string{
	"process", "start", "end", "task", "user", "service", "script", "call",
	"xor", "and", "event", "pool", "lane", "group", "note", "subprocess",
	"import", "from", "as",
}

// EventTypes lists the event type names accepted after "event @".
var EventTypes = []string{
	"message", "timer", "error", "signal", "terminate",
	"escalation", "compensation", "conditional",
}

// FlowTypes lists the flow operator lexemes.
var FlowTypes = []string{"->", "-->", "=>", "..>"}

// AttributeNames lists well-known attribute keys used for typo hints.
var AttributeNames = []string{
	"timeout", "assignee", "priority", "endpoint", "method", "script",
	"params", "version", "author", "description", "collapsed", "parallel",
	"required", "secure", "instant", "form",
}

// SuggestSimilar scores every candidate against target with Jaro-Winkler,
// drops everything at or below the list threshold, and returns at most max
// candidates ordered best-first. Equal scores keep candidate-list order.
func SuggestSimilar(target string, candidates []string, max int) []string {
	if len(candidates) == 0 {
		return nil
	}

	type scored struct {
		score     float64
		candidate string
	}

	matches := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		score := similarity(target, candidate)
		if score > listThreshold {
			matches = append(matches, scored{score, candidate})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > max {
		matches = matches[:max]
	}

	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.candidate
	}
	return result
}

// SuggestKeywords returns up to 3 keywords resembling target.
func SuggestKeywords(target string) []string {
	return SuggestSimilar(target, Keywords, 3)
}

// SuggestEventTypes returns up to 3 event type names resembling target.
func SuggestEventTypes(target string) []string {
	return SuggestSimilar(target, EventTypes, 3)
}

// SuggestFlowTypes returns up to 2 flow operators resembling target.
func SuggestFlowTypes(target string) []string {
	return SuggestSimilar(target, FlowTypes, 2)
}

// SuggestAttributes returns up to 3 attribute names resembling target.
func SuggestAttributes(target string) []string {
	return SuggestSimilar(target, AttributeNames, 3)
}

// SuggestIdentifiers matches target against a caller-supplied identifier
// list, used for unknown-reference hints.
func SuggestIdentifiers(target string, identifiers []string) []string {
	return SuggestSimilar(target, identifiers, 3)
}

// DetectKeywordTypo returns the single keyword target most likely meant.
// It only answers when the best score clears the stricter autocorrect
// threshold; weak resemblances go through SuggestKeywords instead.
func DetectKeywordTypo(target string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, keyword := range Keywords {
		if score := similarity(target, keyword); score > bestScore {
			best = keyword
			bestScore = score
		}
	}
	if bestScore > autocorrectThreshold {
		return best, true
	}
	return "", false
}

// IsLikelyKeywordTypo reports whether target weakly resembles some keyword
// without being one.
func IsLikelyKeywordTypo(target string) bool {
	for _, keyword := range Keywords {
		score := similarity(target, keyword)
		if score > listThreshold && score < 1.0 {
			return true
		}
	}
	return false
}

// similarity is the normalized 0..1 Jaro-Winkler score, tolerant of
// transpositions and favoring shared prefixes.
func similarity(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}
