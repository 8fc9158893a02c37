package langdetect

import (
	"regexp"
	"strings"

	"wirsuchen.de/backend/internal/language"
)

// PatternRule adds Weight to Lang's score for every match of Pattern.
type PatternRule struct {
	Lang    string
	Pattern *regexp.Regexp
	Weight  int
}

// MinScore is the score a language must reach before it can win.
const MinScore = 1

// closeCallMargin is the German/English score gap inside which English wins.
const closeCallMargin = 1

// DefaultRules is the weighting table for job, deal and blog copy.
// Go's \b is ASCII-only, so words with diacritics are matched without it.
func DefaultRules() []PatternRule {
	return []PatternRule{
		{Lang: language.English, Weight: 1, Pattern: regexp.MustCompile(`(?i)\b(the|and|we|are|for|with|our|you|your|is|of|to|in|looking|join|will)\b`)},
		{Lang: language.English, Weight: 2, Pattern: regexp.MustCompile(`(?i)\b(senior|junior|software|developer|engineer|manager|remote|full[- ]?time|part[- ]?time|experience|skills|sale|discount|deal)\b`)},

		{Lang: language.German, Weight: 1, Pattern: regexp.MustCompile(`(?i)\b(wir|suchen|einen|unser|unsere|und|der|die|das|mit|bei|ist|sie|ein|eine|oder|wird|zur|zum|auf)\b`)},
		{Lang: language.German, Weight: 1, Pattern: regexp.MustCompile(`(?i)[äöüß]`)},
		{Lang: language.German, Weight: 2, Pattern: regexp.MustCompile(`(?i)(entwickler|mitarbeiter|kenntnisse|erfahrung|stelle|aufgaben|angebot|vollzeit|teilzeit)`)},
		{Lang: language.German, Weight: 3, Pattern: regexp.MustCompile(`(?i)\((m/w/d|w/m/d|m/f/d|d/m/w|m/w/x)\)`)},

		{Lang: language.French, Weight: 1, Pattern: regexp.MustCompile(`(?i)\b(nous|vous|le|la|les|un|une|des|et|pour|avec|est|dans|du|au)\b`)},
		{Lang: language.French, Weight: 1, Pattern: regexp.MustCompile(`(?i)[éèêàçùâîôœ]`)},
		{Lang: language.French, Weight: 2, Pattern: regexp.MustCompile(`(?i)(recherchons|développeur|ingénieur|poste|entreprise|expérience|compétences)`)},

		{Lang: language.Italian, Weight: 1, Pattern: regexp.MustCompile(`(?i)\b(il|lo|gli|una|di|da|per|con|che|siamo|nostro|nostra|sono|della|delle)\b`)},
		{Lang: language.Italian, Weight: 1, Pattern: regexp.MustCompile(`(?i)[àèìòù]`)},
		{Lang: language.Italian, Weight: 2, Pattern: regexp.MustCompile(`(?i)(cerchiamo|sviluppatore|ingegnere|esperienza|azienda|offerta|lavoro)`)},
	}
}

// HeuristicDetector scores text against a weighted pattern table.
type HeuristicDetector struct {
	rules []PatternRule
}

func NewHeuristic(rules []PatternRule) *HeuristicDetector {
	return &HeuristicDetector{rules: rules}
}

func (d *HeuristicDetector) Detect(text string) string {
	if tooShort(text) {
		return language.Default
	}
	return pickLanguage(d.Scores(text))
}

// Scores returns the accumulated weight per language.
func (d *HeuristicDetector) Scores(text string) map[string]int {
	scores := make(map[string]int, 4)
	sample := strings.TrimSpace(text)
	for _, rule := range d.rules {
		if rule.Pattern == nil || rule.Weight == 0 {
			continue
		}
		matches := len(rule.Pattern.FindAllStringIndex(sample, -1))
		scores[rule.Lang] += matches * rule.Weight
	}
	return scores
}

func pickLanguage(scores map[string]int) string {
	best := language.Default
	bestScore := 0
	for _, lang := range language.Supported() {
		if scores[lang] > bestScore {
			best = lang
			bestScore = scores[lang]
		}
	}
	if bestScore < MinScore {
		return language.Default
	}

	english := scores[language.English]
	if best == language.German && english > 0 && bestScore-english <= closeCallMargin {
		return language.English
	}
	return best
}
