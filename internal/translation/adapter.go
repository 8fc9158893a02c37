package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"wirsuchen.de/backend/internal/cache"
	"wirsuchen.de/backend/internal/language"
	"wirsuchen.de/backend/internal/metrics"
	"wirsuchen.de/backend/internal/schema"
)

// AdapterOptions tunes retries and outbound pacing.
type AdapterOptions struct {
	Retry RetryPolicy
	// QPS caps provider calls per second across all callers. Zero disables pacing.
	QPS float64
}

// Pair is a translated title and description.
type Pair struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Adapter is the single entry point to the translation backends. It owns
// the text cache, de-duplicates concurrent requests for the same text and
// falls back from the batch API to the generative backend.
type Adapter struct {
	primary   BatchTranslator
	generator Generator
	cache     cache.Cache
	retry     RetryPolicy
	limiter   *rate.Limiter
	logger    zerolog.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	inflight map[string]*pendingCall
}

type pendingCall struct {
	done   chan struct{}
	result Outcome
}

type claimedText struct {
	text string
	key  string
	call *pendingCall
}

// NewAdapter wires the backends. primary and generator may each be nil,
// but a nil-valued interface must be passed as a literal nil.
func NewAdapter(primary BatchTranslator, generator Generator, c cache.Cache, opts AdapterOptions, logger zerolog.Logger, m *metrics.Metrics) *Adapter {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.QPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.QPS), 1)
	}
	if c == nil {
		c = cache.NewMemory(m)
	}
	return &Adapter{
		primary:   primary,
		generator: generator,
		cache:     c,
		retry:     opts.Retry,
		limiter:   limiter,
		logger:    logger.With().Str("component", "translation_adapter").Logger(),
		metrics:   m,
		inflight:  make(map[string]*pendingCall),
	}
}

func (a *Adapter) Cache() cache.Cache {
	return a.cache
}

// GeneratorName is the generative backend's name, or "" when none is configured.
func (a *Adapter) GeneratorName() string {
	if a.generator == nil {
		return ""
	}
	return a.generator.Name()
}

// Backends names the configured backends in fallback order.
func (a *Adapter) Backends() []string {
	names := make([]string, 0, 2)
	if a.primary != nil {
		names = append(names, a.primary.Name())
	}
	if a.generator != nil {
		names = append(names, a.generator.Name())
	}
	return names
}

// Outcome is the result for one input text. Backend names the source of
// the text: "cache", a backend name, or "" when Text is the unchanged input.
type Outcome struct {
	Text    string
	Backend string
	Err     error
}

// Translate returns one translation per input text, in input order. Texts
// that could not be translated come back unchanged and the returned error
// wraps ErrProviderUnavailable; the slice is always usable.
func (a *Adapter) Translate(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error) {
	outcomes := a.TranslateEach(ctx, texts, targetLang, sourceLang)
	out := make([]string, len(outcomes))
	var (
		errs   []error
		failed int
	)
	for i, o := range outcomes {
		out[i] = o.Text
		if o.Err != nil {
			failed++
			errs = append(errs, o.Err)
		}
	}
	if failed > 0 {
		return out, fmt.Errorf("%w: %d of %d texts left untranslated: %w",
			ErrProviderUnavailable, failed, len(texts), errors.Join(errs...))
	}
	return out, nil
}

// TranslateEach is Translate with a per-text outcome. Identical texts in one
// call, and across concurrent calls, share a single backend request.
func (a *Adapter) TranslateEach(ctx context.Context, texts []string, targetLang, sourceLang string) []Outcome {
	target := language.NormalizeCode(targetLang)
	source := language.NormalizeCode(sourceLang)

	out := make([]Outcome, len(texts))
	for i, text := range texts {
		out[i] = Outcome{Text: text}
	}
	if len(texts) == 0 || target == "" || (source != "" && source == target) {
		return out
	}

	missing := make([]string, 0, len(texts))
	positions := make(map[string][]int, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if cached, ok := a.cache.Get(ctx, text, target); ok {
			out[i] = Outcome{Text: cached, Backend: "cache"}
			continue
		}
		if _, seen := positions[text]; !seen {
			missing = append(missing, text)
		}
		positions[text] = append(positions[text], i)
	}
	if len(missing) == 0 {
		return out
	}

	resolved := make(map[string]Outcome, len(missing))
	owned, waiting := a.claim(missing, target)

	// A call that finished between the lookup above and the claim has
	// already filled the cache.
	pending := owned[:0]
	for _, c := range owned {
		if cached, ok := a.cache.Get(ctx, c.text, target); ok {
			result := Outcome{Text: cached, Backend: "cache"}
			resolved[c.text] = result
			a.release(c, result)
			continue
		}
		pending = append(pending, c)
	}
	owned = pending

	if len(owned) > 0 {
		batch := make([]string, len(owned))
		for i, c := range owned {
			batch[i] = c.text
		}
		results := a.translateMisses(ctx, batch, target, source)
		for i, c := range owned {
			if results[i].Err == nil {
				a.cache.Set(ctx, c.text, target, results[i].Text)
			}
			resolved[c.text] = results[i]
			a.release(c, results[i])
		}
	}

	for _, w := range waiting {
		select {
		case <-w.call.done:
			resolved[w.text] = w.call.result
		case <-ctx.Done():
			resolved[w.text] = Outcome{Err: ctx.Err()}
		}
	}

	for text, result := range resolved {
		if result.Err != nil {
			result.Text = text
			result.Backend = ""
		}
		for _, i := range positions[text] {
			out[i] = result
		}
	}
	return out
}

// TranslateStructured asks the generative backend for title and description
// in every supported language in one call. The reply must validate against
// the multi-language schema; invalid replies are retried.
func (a *Adapter) TranslateStructured(ctx context.Context, title, description string) (map[string]Pair, error) {
	if a.generator == nil {
		return nil, ErrNoBackend
	}
	responseSchema, err := schema.Source(schema.MultiLanguage)
	if err != nil {
		return nil, err
	}

	prompt := structuredPrompt(title, description, responseSchema)
	var out map[string]Pair
	err = a.retry.Do(ctx, a.generator.Name(), a.metrics, func(ctx context.Context) error {
		if err := a.limiter.Wait(ctx); err != nil {
			return err
		}
		raw, err := a.generator.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		var parsed map[string]Pair
		if err := schema.Decode(schema.MultiLanguage, []byte(extractJSONObject(raw)), &parsed); err != nil {
			return fmt.Errorf("%w: %v", ErrStructuredResponse, err)
		}
		out = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	for lang, pair := range out {
		a.cache.Set(ctx, title, lang, pair.Title)
		if strings.TrimSpace(description) != "" {
			a.cache.Set(ctx, description, lang, pair.Description)
		}
	}
	return out, nil
}

func (a *Adapter) translateMisses(ctx context.Context, texts []string, target, source string) []Outcome {
	results := make([]Outcome, len(texts))

	var primaryErr error
	if a.primary != nil {
		var translated []string
		primaryErr = a.retry.Do(ctx, a.primary.Name(), a.metrics, func(ctx context.Context) error {
			if err := a.limiter.Wait(ctx); err != nil {
				return err
			}
			out, err := a.primary.TranslateBatch(ctx, texts, target, source)
			if err != nil {
				return err
			}
			if len(out) != len(texts) {
				return fmt.Errorf("%s returned %d translations for %d texts", a.primary.Name(), len(out), len(texts))
			}
			translated = out
			return nil
		})
		if primaryErr == nil {
			for i, text := range translated {
				results[i] = Outcome{Text: text, Backend: a.primary.Name()}
			}
			return results
		}
		a.logger.Warn().Err(primaryErr).Str("target_lang", target).Int("texts", len(texts)).
			Msg("batch translation failed, falling back to generative backend")
	}

	if a.generator == nil {
		err := ErrNoBackend
		if primaryErr != nil {
			err = primaryErr
		}
		for i := range results {
			results[i] = Outcome{Err: err}
		}
		return results
	}

	for i, text := range texts {
		translated, err := a.generate(ctx, translatePrompt(text, source, target))
		results[i] = Outcome{Text: translated, Backend: a.generator.Name(), Err: err}
	}
	return results
}

func (a *Adapter) generate(ctx context.Context, prompt Prompt) (string, error) {
	var text string
	err := a.retry.Do(ctx, a.generator.Name(), a.metrics, func(ctx context.Context) error {
		if err := a.limiter.Wait(ctx); err != nil {
			return err
		}
		out, err := a.generator.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	return text, err
}

func (a *Adapter) claim(texts []string, target string) (owned, waiting []claimedText) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, text := range texts {
		key := cache.Key(text, target)
		if call, ok := a.inflight[key]; ok {
			waiting = append(waiting, claimedText{text: text, key: key, call: call})
			continue
		}
		call := &pendingCall{done: make(chan struct{})}
		a.inflight[key] = call
		owned = append(owned, claimedText{text: text, key: key, call: call})
	}
	return owned, waiting
}

func (a *Adapter) release(c claimedText, result Outcome) {
	c.call.result = result
	a.mu.Lock()
	delete(a.inflight, c.key)
	a.mu.Unlock()
	close(c.call.done)
}

// extractJSONObject strips markdown fences and prose around a JSON object.
func extractJSONObject(raw string) string {
	trimmed := strings.TrimSpace(raw)
	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start < 0 || end <= start {
		return trimmed
	}
	return trimmed[start : end+1]
}
