package intent

import "testing"

func TestClassifySummaryPhrases(t *testing.T) {
	cases := []string{
		"Can you give me a recap?",
		"SUMMARY please",
		"let's summarize",
		"could you generate report now",
		"Show me what we have so far",
	}
	for _, msg := range cases {
		if got := Classify(msg); got != Summary {
			t.Fatalf("Classify(%q) = %s, want summary", msg, got)
		}
	}
}

func TestClassifyProceedPhrases(t *testing.T) {
	cases := []string{"Okay", "yes!", "Let’s continue", "go ahead then", "next question"}
	for _, msg := range cases {
		if got := Classify(msg); got != Proceed {
			t.Fatalf("Classify(%q) = %s, want proceed", msg, got)
		}
	}
}

func TestSummaryWinsOverProceed(t *testing.T) {
	if got := Classify("yes, give me a recap"); got != Summary {
		t.Fatalf("expected summary to take precedence, got %s", got)
	}
}

func TestClassifyRequiresWholeWords(t *testing.T) {
	cases := []string{
		"My product is called Yesterday's Coach",
		"The summaryless plan",
		"We sell continuety kits",
		"CoachFlow",
	}
	for _, msg := range cases {
		if got := Classify(msg); got != Normal {
			t.Fatalf("Classify(%q) = %s, want normal", msg, got)
		}
	}
}

func TestCustomPhrases(t *testing.T) {
	c := NewClassifierWithPhrases([]string{"wrap up"}, nil)
	if got := c.Classify("let's wrap up"); got != Summary {
		t.Fatalf("expected custom summary phrase to match, got %s", got)
	}
	if got := c.Classify("yes"); got != Normal {
		t.Fatalf("empty proceed bucket should never match, got %s", got)
	}
}
