package language

import "strings"

// Supported target languages for translated content.
const (
	English = "en"
	German  = "de"
	French  = "fr"
	Italian = "it"
)

// Default is served when no usable language is requested.
const Default = English

var supported = []string{English, German, French, Italian}

var labels = map[string]string{
	English: "English",
	German:  "German",
	French:  "French",
	Italian: "Italian",
}

// Supported returns the target languages in canonical order.
func Supported() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

func IsSupported(code string) bool {
	_, ok := labels[NormalizeCode(code)]
	return ok
}

// Label returns the English name of a supported language, or the upper-cased code.
func Label(code string) string {
	normalized := NormalizeCode(code)
	if label, ok := labels[normalized]; ok {
		return label
	}
	return strings.ToUpper(normalized)
}

// Resolve picks the first supported language among the candidates
// (typically the lang and locale query parameters) and falls back to Default.
func Resolve(candidates ...string) string {
	for _, candidate := range candidates {
		code := NormalizeCode(candidate)
		if IsSupported(code) {
			return code
		}
	}
	return Default
}

// Others returns every supported language except the given one.
func Others(code string) []string {
	normalized := NormalizeCode(code)
	out := make([]string, 0, len(supported))
	for _, lang := range supported {
		if lang != normalized {
			out = append(out, lang)
		}
	}
	return out
}
