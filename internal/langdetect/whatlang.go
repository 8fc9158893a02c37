package langdetect

import (
	"github.com/abadojack/whatlanggo"

	"wirsuchen.de/backend/internal/language"
)

var whatlangWhitelist = whatlanggo.Options{
	Whitelist: map[whatlanggo.Lang]bool{
		whatlanggo.Eng: true,
		whatlanggo.Deu: true,
		whatlanggo.Fra: true,
		whatlanggo.Ita: true,
	},
}

// WhatlangDetector uses trigram detection and defers to a fallback detector
// when whatlanggo does not consider the result reliable (short job titles mostly).
type WhatlangDetector struct {
	fallback Detector
}

func NewWhatlang(fallback Detector) *WhatlangDetector {
	return &WhatlangDetector{fallback: fallback}
}

func (d *WhatlangDetector) Detect(text string) string {
	if tooShort(text) {
		return language.Default
	}

	info := whatlanggo.DetectWithOptions(text, whatlangWhitelist)
	if !info.IsReliable() {
		if d.fallback != nil {
			return d.fallback.Detect(text)
		}
		return language.Default
	}
	return supportedOrDefault(info.Lang.Iso6391())
}
