package langdetect

import (
	"sync"

	lingua "github.com/pemistahl/lingua-go"

	"wirsuchen.de/backend/internal/language"
)

// LinguaDetector classifies text with lingua's statistical models,
// restricted to the supported target languages.
type LinguaDetector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

func NewLingua() *LinguaDetector {
	return &LinguaDetector{}
}

func (d *LinguaDetector) Detect(text string) string {
	if tooShort(text) {
		return language.Default
	}

	detected, exists := d.get().DetectLanguageOf(text)
	if !exists {
		return language.Default
	}
	return supportedOrDefault(detected.IsoCode639_1().String())
}

func (d *LinguaDetector) get() lingua.LanguageDetector {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.German, lingua.French, lingua.Italian).
			WithPreloadedLanguageModels().
			Build()
	})
	return d.detector
}
