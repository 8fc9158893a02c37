package translation

import (
	"context"
	"fmt"
	"strings"

	"wirsuchen.de/backend/internal/language"
)

// BatchTranslator is a dedicated translation API that accepts many texts
// per request and answers in input order.
type BatchTranslator interface {
	Name() string
	TranslateBatch(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error)
}

// Generator is a generative text model.
type Generator interface {
	Name() string
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is one generative request. When Schema is set the backend asks
// for JSON output matching it, natively where the API supports that.
type Prompt struct {
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

const translateSystemPrompt = "You are a professional translator for a job board and deals marketplace. " +
	"Translate the user's text faithfully, keep names, brands, URLs and HTML markup unchanged. " +
	"Return only the translated text with no commentary, quotes or explanations."

func translatePrompt(text, sourceLang, targetLang string) Prompt {
	var b strings.Builder
	b.WriteString("Translate the following text")
	if source := language.NormalizeCode(sourceLang); source != "" {
		fmt.Fprintf(&b, " from %s", language.Label(source))
	}
	fmt.Fprintf(&b, " into %s.\n\n%s", language.Label(targetLang), text)
	return Prompt{System: translateSystemPrompt, User: b.String()}
}

const structuredSystemPrompt = "You translate job and deal listings. " +
	"Translate the given title and description into English (en), German (de), French (fr) and Italian (it). " +
	"Answer with a single JSON object of the form " +
	`{"en":{"title":"","description":""},"de":{...},"fr":{...},"it":{...}}` +
	" and nothing else. Keep company names, brands and URLs unchanged."

func structuredPrompt(title, description string, schema map[string]any) Prompt {
	return Prompt{
		System:     structuredSystemPrompt,
		User:       fmt.Sprintf("Title:\n%s\n\nDescription:\n%s", title, description),
		SchemaName: "listing_translations",
		Schema:     schema,
	}
}
