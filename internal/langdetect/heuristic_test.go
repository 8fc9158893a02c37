package langdetect

import (
	"regexp"
	"testing"
)

func TestHeuristicDetect(t *testing.T) {
	t.Parallel()

	detector := NewHeuristic(DefaultRules())
	cases := map[string]string{
		"Senior Software Developer (m/w/d)":                  "en",
		"Wir suchen einen Softwareentwickler für unser Team": "de",
		"Nous recherchons un développeur":                    "fr",
		"Cerchiamo uno sviluppatore per la nostra azienda":   "it",
		"Hi": "en",
		"x":  "en",
		"":   "en",
	}
	for input, want := range cases {
		if got := detector.Detect(input); got != want {
			t.Fatalf("Detect(%q): got %q want %q", input, got, want)
		}
	}
}

func TestHeuristicDetect_GenderMarkerAloneIsGerman(t *testing.T) {
	t.Parallel()

	detector := NewHeuristic(DefaultRules())
	if got := detector.Detect("Buchhalter (m/w/d)"); got != "de" {
		t.Fatalf("expected de for marker-only title, got %q", got)
	}
}

func TestHeuristicDetect_CloseCallPrefersEnglish(t *testing.T) {
	t.Parallel()

	rules := []PatternRule{
		{Lang: "en", Weight: 2, Pattern: regexp.MustCompile(`(?i)\bsenior\b`)},
		{Lang: "de", Weight: 3, Pattern: regexp.MustCompile(`\(m/w/d\)`)},
	}
	detector := NewHeuristic(rules)
	if got := detector.Detect("Senior Koch (m/w/d)"); got != "en" {
		t.Fatalf("expected en when scores are within one point, got %q", got)
	}
}

func TestHeuristicDetect_BelowThresholdDefaultsToEnglish(t *testing.T) {
	t.Parallel()

	detector := NewHeuristic(DefaultRules())
	if got := detector.Detect("12345 67890"); got != "en" {
		t.Fatalf("expected default en, got %q", got)
	}
}

func TestNewUnknownStrategy(t *testing.T) {
	t.Parallel()

	if _, err := New("magic"); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
	detector, err := New("")
	if err != nil {
		t.Fatalf("new default detector: %v", err)
	}
	if _, ok := detector.(*HeuristicDetector); !ok {
		t.Fatalf("expected heuristic detector by default, got %T", detector)
	}
}
