package langdetect

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"wirsuchen.de/backend/internal/language"
)

// Strategy names accepted by New.
const (
	StrategyHeuristic = "heuristic"
	StrategyLingua    = "lingua"
	StrategyWhatlang  = "whatlang"
)

// minInputRunes is the shortest input worth classifying; anything shorter is English.
const minInputRunes = 2

// Detector guesses the source language of a title or description.
// Implementations always return one of the supported language codes.
type Detector interface {
	Detect(text string) string
}

// New resolves a detector strategy by name. Empty selects the heuristic detector.
func New(strategy string) (Detector, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyHeuristic:
		return NewHeuristic(DefaultRules()), nil
	case StrategyLingua:
		return NewLingua(), nil
	case StrategyWhatlang:
		return NewWhatlang(NewHeuristic(DefaultRules())), nil
	default:
		return nil, fmt.Errorf("unknown language detector %q", strategy)
	}
}

func tooShort(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < minInputRunes
}

func supportedOrDefault(code string) string {
	normalized := language.NormalizeCode(code)
	if language.IsSupported(normalized) {
		return normalized
	}
	return language.Default
}
