package intent

import (
	"regexp"
	"strings"
)

// Kind is the routing decision for one user message.
type Kind string

const (
	Normal  Kind = "normal"
	Summary Kind = "summary"
	Proceed Kind = "proceed"
)

// Phrase buckets are checked in order; summary always wins over proceed.
var (
	SummaryPhrases = []string{
		"summary", "summarize", "can you sum up", "give me a recap",
		"show me what we have", "generate report", "create report",
	}
	ProceedPhrases = []string{
		"okay", "yes", "proceed", "continue", "let's continue",
		"next question", "go ahead",
	}
)

var apostrophes = strings.NewReplacer("’", "'", "‘", "'")

// Classifier matches whole-word, case-insensitive trigger phrases.
type Classifier struct {
	summary *regexp.Regexp
	proceed *regexp.Regexp
}

// NewClassifier returns a Classifier using the default phrase buckets.
func NewClassifier() *Classifier {
	return NewClassifierWithPhrases(SummaryPhrases, ProceedPhrases)
}

// NewClassifierWithPhrases builds a Classifier from custom buckets.
// An empty bucket never matches.
func NewClassifierWithPhrases(summary, proceed []string) *Classifier {
	return &Classifier{
		summary: compile(summary),
		proceed: compile(proceed),
	}
}

func compile(phrases []string) *regexp.Regexp {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(apostrophes.Replace(p))
		if p == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Classify routes a message to Summary, Proceed or Normal.
func (c *Classifier) Classify(message string) Kind {
	text := apostrophes.Replace(message)
	switch {
	case c.summary != nil && c.summary.MatchString(text):
		return Summary
	case c.proceed != nil && c.proceed.MatchString(text):
		return Proceed
	default:
		return Normal
	}
}

var defaultClassifier = NewClassifier()

// Classify uses the default phrase buckets.
func Classify(message string) Kind {
	return defaultClassifier.Classify(message)
}
