package contextparse

import "strings"

// Context is the account routing context recognized in free-text expense
// descriptions.
type Context string

const (
	ContextPersonal Context = "personal"
	ContextCouple   Context = "couple"
	ContextFamily   Context = "family"
	ContextBusiness Context = "business"
)

// KeywordGroup maps a set of literal trigger tokens to a routing context.
type KeywordGroup struct {
	Context Context
	Tokens  []string
}

// DefaultGroups returns the built-in trigger vocabulary. The @-prefixed
// forms are the canonical triggers; bare words match with lower confidence.
func DefaultGroups() []KeywordGroup {
	return []KeywordGroup{
		{Context: ContextCouple, Tokens: []string{"@pareja", "@couple", "pareja"}},
		{Context: ContextPersonal, Tokens: []string{"@personal", "@mio", "personal"}},
		{Context: ContextFamily, Tokens: []string{"@familia", "@family", "familia"}},
		{Context: ContextBusiness, Tokens: []string{"@negocio", "@business", "negocio"}},
	}
}

const (
	baseConfidence    = 0.70
	atPrefixBonus     = 0.25
	repetitionPenalty = 0.20 // per extra occurrence of the matched token
	minConfidence     = 0.10
)

// Result is the outcome of a parse. Context is empty when no trigger token
// matched; in that case CleanDescription is the trimmed original text and
// Confidence is zero.
type Result struct {
	Context          Context `json:"context,omitempty"`
	CleanDescription string  `json:"cleanDescription"`
	Confidence       float64 `json:"confidence"`
}

// Parse scans text for the first matching trigger token (case-insensitive),
// strips every occurrence of it together with surrounding whitespace, and
// scores the match. Repeated occurrences of the same token lower the
// confidence: repetition reads as noise rather than intent. Pure text
// processing, no side effects; mapping the context to an account id is the
// caller's concern.
func Parse(text string, groups []KeywordGroup) Result {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	for _, group := range groups {
		for _, token := range group.Tokens {
			tokenLower := strings.ToLower(token)
			if tokenLower == "" || !strings.Contains(lower, tokenLower) {
				continue
			}

			occurrences := strings.Count(lower, tokenLower)

			confidence := baseConfidence
			if strings.HasPrefix(tokenLower, "@") {
				confidence += atPrefixBonus
			}
			if occurrences > 1 {
				confidence -= repetitionPenalty * float64(occurrences-1)
			}
			if confidence < minConfidence {
				confidence = minConfidence
			}
			if confidence > 1 {
				confidence = 1
			}

			return Result{
				Context:          group.Context,
				CleanDescription: stripToken(trimmed, tokenLower),
				Confidence:       confidence,
			}
		}
	}

	return Result{CleanDescription: trimmed, Confidence: 0}
}

// stripToken removes every case-insensitive occurrence of token from text and
// collapses the whitespace left behind.
func stripToken(text, tokenLower string) string {
	var b strings.Builder
	lower := strings.ToLower(text)
	for {
		idx := strings.Index(lower, tokenLower)
		if idx < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:idx])
		b.WriteByte(' ')
		text = text[idx+len(tokenLower):]
		lower = lower[idx+len(tokenLower):]
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
