package translation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"wirsuchen.de/backend/internal/content"
	"wirsuchen.de/backend/internal/db"
	"wirsuchen.de/backend/internal/langdetect"
	"wirsuchen.de/backend/internal/language"
	"wirsuchen.de/backend/internal/metrics"
)

// identityProvider is recorded for translations that copy the source text.
const identityProvider = "identity"

// Source tells where the fields of a Result came from.
type Source string

const (
	SourceOriginal   Source = "original"
	SourceCache      Source = "cache"
	SourceStore      Source = "stored"
	SourceTranslated Source = "translated"
	SourceFallback   Source = "fallback"
)

// Store is the durable translation storage the manager reads and writes.
type Store interface {
	GetTranslationBatch(ctx context.Context, contentIDs []string, lang string, t content.Type) (map[string]content.TranslatedFields, error)
	UpsertTranslation(ctx context.Context, params db.UpsertTranslationParams) error
	ListTranslatedLanguages(ctx context.Context, contentIDs []string, t content.Type) (map[string][]string, error)
	ListBulkCandidates(ctx context.Context, t content.Type, offset, limit int) ([]db.BulkCandidate, error)
	CountMissingTranslations(ctx context.Context, t content.Type, languages []string) (int64, error)
	TranslationCoverage(ctx context.Context, languages []string) ([]db.CoverageRow, error)
	ItemTranslationCoverage(ctx context.Context, contentID string, t content.Type) ([]db.ItemTranslationRow, error)
}

// Scheduler runs detached background work. Submit must not block and
// reports false when the task was rejected.
type Scheduler interface {
	Submit(name string, task func(ctx context.Context) error) bool
}

type ManagerOptions struct {
	// SyncTimeout bounds the inline provider call of the synchronous path.
	SyncTimeout time.Duration
	// BackfillMaxItems caps how many items one backfill pass translates.
	BackfillMaxItems int
	// BackfillCallDelay spaces consecutive provider calls inside a backfill pass.
	BackfillCallDelay time.Duration
	BulkWindow        int
	BulkBatchSize     int
	BulkConcurrency   int
}

func DefaultManagerOptions() ManagerOptions {
	return ManagerOptions{
		SyncTimeout:       25 * time.Second,
		BackfillMaxItems:  10,
		BackfillCallDelay: 500 * time.Millisecond,
		BulkWindow:        500,
		BulkBatchSize:     10,
		BulkConcurrency:   3,
	}
}

// Result is the outcome of translating one item into one language. Fields
// always holds something servable; on failure it is the original text.
type Result struct {
	Item     content.Item
	Language string
	Fields   content.TranslatedFields
	Source   Source
}

// Translated reports whether Fields is in the requested language.
func (r Result) Translated() bool {
	return r.Source != SourceFallback
}

// Manager decides, per item and language, between cache, durable store and
// provider, and owns the synchronous, backfill and bulk translation paths.
type Manager struct {
	adapter   *Adapter
	store     Store
	scheduler Scheduler
	detector  langdetect.Detector
	sanitizer *bluemonday.Policy
	opts      ManagerOptions
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

func NewManager(adapter *Adapter, store Store, scheduler Scheduler, detector langdetect.Detector, opts ManagerOptions, logger zerolog.Logger, m *metrics.Metrics) *Manager {
	defaults := DefaultManagerOptions()
	if opts.SyncTimeout <= 0 {
		opts.SyncTimeout = defaults.SyncTimeout
	}
	if opts.BackfillMaxItems < 0 {
		opts.BackfillMaxItems = 0
	}
	if opts.BulkWindow <= 0 {
		opts.BulkWindow = defaults.BulkWindow
	}
	if opts.BulkBatchSize <= 0 {
		opts.BulkBatchSize = defaults.BulkBatchSize
	}
	if opts.BulkConcurrency <= 0 {
		opts.BulkConcurrency = defaults.BulkConcurrency
	}
	if detector == nil {
		detector = langdetect.NewHeuristic(langdetect.DefaultRules())
	}
	return &Manager{
		adapter:   adapter,
		store:     store,
		scheduler: scheduler,
		detector:  detector,
		sanitizer: bluemonday.UGCPolicy(),
		opts:      opts,
		logger:    logger.With().Str("component", "translation_manager").Logger(),
		metrics:   m,
	}
}

func (m *Manager) Adapter() *Adapter {
	return m.adapter
}

// DetectLanguage guesses the language of free text.
func (m *Manager) DetectLanguage(text string) string {
	return m.detector.Detect(text)
}

// TranslateTexts translates loose strings on the synchronous path. Failed
// entries keep their original text.
func (m *Manager) TranslateTexts(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.opts.SyncTimeout)
	defer cancel()
	return m.adapter.Translate(ctx, texts, targetLang, sourceLang)
}

// TranslateItem is TranslateItems for a single item.
func (m *Manager) TranslateItem(ctx context.Context, item content.Item, lang string) Result {
	return m.TranslateItems(ctx, []content.Item{item}, lang)[0]
}

// TranslateItems is the synchronous best-effort path. Every item walks
// cache, then store, then provider; whatever fails is served in its original
// language. Results are in input order and this never returns an error.
func (m *Manager) TranslateItems(ctx context.Context, items []content.Item, lang string) []Result {
	target := language.Resolve(lang)
	results := make([]Result, len(items))
	pending := make([]int, 0, len(items))

	for i, item := range items {
		results[i] = Result{Item: item, Language: target, Fields: item.Identity(), Source: SourceFallback}
		if m.sourceLanguage(item) == target {
			results[i].Source = SourceOriginal
			continue
		}
		if fields, ok := m.cachedFields(ctx, item, target); ok {
			results[i].Fields = fields
			results[i].Source = SourceCache
			continue
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return results
	}

	pending = m.applyStored(ctx, items, pending, target, results)
	if len(pending) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, m.opts.SyncTimeout)
	defer cancel()

	for source, indexes := range m.groupBySource(items, pending) {
		group := make([]content.Item, len(indexes))
		for i, idx := range indexes {
			group[i] = items[idx]
		}
		for i, outcome := range m.translateFields(ctx, group, source, target) {
			idx := indexes[i]
			if outcome.err != nil {
				m.logger.Warn().Err(outcome.err).Str("content_id", items[idx].ID).Str("lang", target).
					Msg("serving original text")
				continue
			}
			results[idx].Fields = outcome.fields
			results[idx].Source = SourceTranslated
			m.persistLater(results[idx], outcome.provider)
		}
	}
	return results
}

// ScheduleBackfill hands the first items without a stored translation to
// the background runner and returns how many were submitted. It never waits
// for the translation.
func (m *Manager) ScheduleBackfill(items []content.Item, lang string) int {
	if m.scheduler == nil || len(items) == 0 || m.opts.BackfillMaxItems == 0 {
		return 0
	}
	target := language.Resolve(lang)

	batch := make([]content.Item, 0, min(len(items), m.opts.BackfillMaxItems))
	for _, item := range items {
		if len(batch) == m.opts.BackfillMaxItems {
			break
		}
		if _, err := content.ParseID(item.ID); err != nil {
			m.logger.Warn().Err(err).Str("content_id", item.ID).Msg("excluded from backfill")
			continue
		}
		batch = append(batch, item)
	}
	if len(batch) == 0 {
		return 0
	}

	if !m.scheduler.Submit("backfill:"+target, func(ctx context.Context) error {
		return m.backfill(ctx, batch, target)
	}) {
		m.logger.Warn().Str("lang", target).Int("items", len(batch)).Msg("backfill queue full, dropping pass")
		return 0
	}
	return len(batch)
}

func (m *Manager) backfill(ctx context.Context, items []content.Item, target string) error {
	stored := make(map[string]bool, len(items))
	for t, group := range groupByType(items) {
		ids := make([]string, len(group))
		for i, item := range group {
			ids[i] = item.ID
		}
		found, err := m.store.GetTranslationBatch(ctx, ids, target, t)
		if err != nil {
			m.logger.Warn().Err(err).Str("lang", target).Msg("store read failed, translating all items")
			continue
		}
		for id := range found {
			stored[id] = true
		}
	}

	limit := rate.Inf
	if m.opts.BackfillCallDelay > 0 {
		limit = rate.Every(m.opts.BackfillCallDelay)
	}
	pacer := rate.NewLimiter(limit, 1)

	var failed int
	for _, item := range items {
		if stored[item.ID] {
			continue
		}
		fields, provider := item.Identity(), identityProvider
		if source := m.sourceLanguage(item); source != target {
			if err := pacer.Wait(ctx); err != nil {
				return err
			}
			outcome := m.translateFields(ctx, []content.Item{item}, source, target)[0]
			if outcome.err != nil {
				m.logger.Warn().Err(outcome.err).Str("content_id", item.ID).Str("lang", target).Msg("backfill translation failed")
				failed++
				continue
			}
			fields, provider = outcome.fields, outcome.provider
		}
		if err := m.persist(ctx, item, target, fields, provider, "backfill"); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("backfill %s: %d of %d items failed", target, failed, len(items))
	}
	return nil
}

type BulkOptions struct {
	Type      content.Type
	BatchSize int
	Offset    int
	// Force re-translates items that already have records.
	Force bool
}

type BulkStats struct {
	ProcessedJobs         int   `json:"processedJobs"`
	TranslationsCreated   int   `json:"translationsCreated"`
	Errors                int   `json:"errors"`
	Skipped               int   `json:"skipped"`
	RemainingUntranslated int64 `json:"remainingUntranslated"`
	NextOffset            int   `json:"nextOffset"`
	Done                  bool  `json:"done"`
}

type bulkGroup struct {
	position int
	members  []content.Item
	missing  map[string][]string
}

// BulkTranslate runs one bounded pass of the bulk backfill: it scans a
// window of candidates from Offset, picks up to BatchSize duplicate groups
// with missing languages and persists a record per member and language.
// Per-item failures are counted, never returned.
func (m *Manager) BulkTranslate(ctx context.Context, opts BulkOptions) (BulkStats, error) {
	t := opts.Type
	if t == "" {
		t = content.TypeJob
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = m.opts.BulkBatchSize
	}
	offset := max(opts.Offset, 0)
	languages := language.Supported()

	candidates, err := m.store.ListBulkCandidates(ctx, t, offset, m.opts.BulkWindow)
	if err != nil {
		return BulkStats{}, fmt.Errorf("list bulk candidates: %w", err)
	}
	stats := BulkStats{NextOffset: offset + len(candidates)}

	valid := make([]db.BulkCandidate, 0, len(candidates))
	positions := make(map[string]int, len(candidates))
	for i, c := range candidates {
		if _, err := content.ParseID(c.Item.ID); err != nil {
			m.logger.Warn().Err(err).Str("content_id", c.Item.ID).Msg("skipping malformed content id")
			stats.Skipped++
			continue
		}
		positions[c.Item.ID] = i
		valid = append(valid, c)
	}

	existing := map[string][]string{}
	if !opts.Force && len(valid) > 0 {
		ids := make([]string, len(valid))
		for i, c := range valid {
			ids[i] = c.Item.ID
		}
		existing, err = m.store.ListTranslatedLanguages(ctx, ids, t)
		if err != nil {
			return BulkStats{}, fmt.Errorf("list translated languages: %w", err)
		}
	}

	selected := make([]bulkGroup, 0, batchSize)
	for _, g := range m.bulkGroups(t, valid, positions) {
		for _, member := range g.members {
			if missing := missingLanguages(languages, existing[member.ID]); len(missing) > 0 {
				g.missing[member.ID] = missing
			}
		}
		if len(g.missing) == 0 {
			continue
		}
		if len(selected) == batchSize {
			stats.NextOffset = offset + g.position
			break
		}
		selected = append(selected, g)
	}

	var (
		mu    sync.Mutex
		group errgroup.Group
	)
	group.SetLimit(m.opts.BulkConcurrency)
	for _, g := range selected {
		group.Go(func() error {
			created, failed := m.bulkTranslateGroup(ctx, t, g)
			mu.Lock()
			stats.ProcessedJobs += len(g.missing)
			stats.TranslationsCreated += created
			stats.Errors += failed
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	remaining, err := m.store.CountMissingTranslations(ctx, t, languages)
	if err != nil {
		m.logger.Warn().Err(err).Str("content_type", string(t)).Msg("count missing translations failed")
		remaining = -1
	}
	stats.RemainingUntranslated = remaining
	stats.Done = remaining == 0
	if len(candidates) == 0 && remaining > 0 {
		stats.NextOffset = 0
	}

	m.logger.Info().
		Str("content_type", string(t)).
		Int("offset", offset).
		Int("processed", stats.ProcessedJobs).
		Int("created", stats.TranslationsCreated).
		Int("errors", stats.Errors).
		Int64("remaining", stats.RemainingUntranslated).
		Msg("bulk translation pass finished")
	return stats, nil
}

// bulkGroups collapses duplicate job postings. Other types are one group
// per item.
func (m *Manager) bulkGroups(t content.Type, candidates []db.BulkCandidate, positions map[string]int) []bulkGroup {
	byID := make(map[string]content.Item, len(candidates))
	postings := make([]content.Posting, len(candidates))
	for i, c := range candidates {
		byID[c.Item.ID] = c.Item
		postings[i] = content.Posting{
			ContentID:  c.Item.ID,
			ExternalID: c.ExternalID,
			Title:      c.Item.Text(content.FieldTitle),
			Company:    c.Company,
			Location:   c.Location,
		}
	}

	if t != content.TypeJob {
		groups := make([]bulkGroup, len(candidates))
		for i, c := range candidates {
			groups[i] = bulkGroup{position: positions[c.Item.ID], members: []content.Item{c.Item}, missing: map[string][]string{}}
		}
		return groups
	}

	deduped := content.Deduplicate(postings)
	groups := make([]bulkGroup, len(deduped))
	for i, d := range deduped {
		members := make([]content.Item, len(d.Members))
		for j, p := range d.Members {
			members[j] = byID[p.ContentID]
		}
		groups[i] = bulkGroup{position: positions[d.Representative.ContentID], members: members, missing: map[string][]string{}}
	}
	return groups
}

func (m *Manager) bulkTranslateGroup(ctx context.Context, t content.Type, g bulkGroup) (created, failed int) {
	rep := g.members[0]
	source := m.sourceLanguage(rep)

	needed := map[string]bool{}
	for _, langs := range g.missing {
		for _, lang := range langs {
			needed[lang] = true
		}
	}

	translations := make(map[string]content.TranslatedFields, len(needed))
	provider := identityProvider
	if t != content.TypeBlog && m.adapter.GeneratorName() != "" && !onlySource(needed, source) {
		pairs, err := m.adapter.TranslateStructured(ctx, rep.Text(content.FieldTitle), rep.Text(content.FieldDescription))
		if err != nil {
			m.logger.Warn().Err(err).Str("content_id", rep.ID).Msg("structured translation failed")
			return 0, len(g.missing)
		}
		provider = m.adapter.GeneratorName()
		for lang, pair := range pairs {
			translations[lang] = content.NewTranslatedFields(t, map[string]string{
				content.FieldTitle:       pair.Title,
				content.FieldDescription: pair.Description,
			})
		}
	} else {
		for _, lang := range language.Others(source) {
			if !needed[lang] {
				continue
			}
			outcome := m.translateFields(ctx, []content.Item{rep}, source, lang)[0]
			if outcome.err != nil {
				m.logger.Warn().Err(outcome.err).Str("content_id", rep.ID).Str("lang", lang).Msg("bulk translation failed")
				continue
			}
			translations[lang] = outcome.fields
			provider = outcome.provider
		}
	}

	for _, member := range g.members {
		for _, lang := range g.missing[member.ID] {
			fields, ok := translations[lang]
			entryProvider := provider
			if lang == source {
				fields, ok, entryProvider = member.Identity(), true, identityProvider
			}
			if !ok {
				failed++
				continue
			}
			if err := m.persist(ctx, member, lang, fields, entryProvider, "bulk"); err != nil {
				failed++
				continue
			}
			created++
		}
	}
	return created, failed
}

// CoverageReport summarizes stored translations per content type.
type CoverageReport struct {
	Languages []string       `json:"languages"`
	Types     []TypeCoverage `json:"types"`
}

type TypeCoverage struct {
	Type            content.Type     `json:"type"`
	Total           int64            `json:"total"`
	FullyTranslated int64            `json:"fullyTranslated"`
	Remaining       int64            `json:"remainingUntranslated"`
	PerLanguage     map[string]int64 `json:"perLanguage,omitempty"`
}

func (m *Manager) Coverage(ctx context.Context, detailed bool) (CoverageReport, error) {
	languages := language.Supported()
	rows, err := m.store.TranslationCoverage(ctx, languages)
	if err != nil {
		return CoverageReport{}, fmt.Errorf("translation coverage: %w", err)
	}
	report := CoverageReport{Languages: languages, Types: make([]TypeCoverage, 0, len(rows))}
	for _, row := range rows {
		tc := TypeCoverage{
			Type:            row.ContentType,
			Total:           row.Total,
			FullyTranslated: row.FullyTranslated,
			Remaining:       row.Total - row.FullyTranslated,
		}
		if detailed {
			tc.PerLanguage = row.PerLanguage
		}
		report.Types = append(report.Types, tc)
	}
	return report, nil
}

// ItemCoverage is the per-language state of one content item.
type ItemCoverage struct {
	ContentID string             `json:"contentId"`
	Type      content.Type       `json:"type"`
	Languages []LanguageCoverage `json:"languages"`
	Missing   []string           `json:"missing"`
	Complete  bool               `json:"complete"`
}

type LanguageCoverage struct {
	Language     string     `json:"language"`
	Translated   bool       `json:"translated"`
	ProviderName string     `json:"providerName,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func (m *Manager) ItemCoverage(ctx context.Context, contentID string) (ItemCoverage, error) {
	id, err := content.ParseID(contentID)
	if err != nil {
		return ItemCoverage{}, err
	}
	rows, err := m.store.ItemTranslationCoverage(ctx, id.String(), id.Type)
	if err != nil {
		return ItemCoverage{}, fmt.Errorf("item translation coverage: %w", err)
	}
	byLang := make(map[string]db.ItemTranslationRow, len(rows))
	for _, row := range rows {
		byLang[row.Language] = row
	}

	out := ItemCoverage{ContentID: id.String(), Type: id.Type, Missing: []string{}}
	for _, lang := range language.Supported() {
		entry := LanguageCoverage{Language: lang}
		if row, ok := byLang[lang]; ok {
			updated := row.UpdatedAt
			entry.Translated = true
			entry.ProviderName = row.ProviderName
			entry.UpdatedAt = &updated
		} else {
			out.Missing = append(out.Missing, lang)
		}
		out.Languages = append(out.Languages, entry)
	}
	out.Complete = len(out.Missing) == 0
	return out, nil
}

type fieldsOutcome struct {
	fields   content.TranslatedFields
	provider string
	err      error
}

// translateFields translates the non-empty fields of items with a single
// adapter call. An item succeeds only if all of its fields did.
func (m *Manager) translateFields(ctx context.Context, items []content.Item, source, target string) []fieldsOutcome {
	type slot struct {
		item  int
		field string
	}
	var (
		texts []string
		slots []slot
	)
	for i, item := range items {
		for _, f := range item.Fields {
			if strings.TrimSpace(f.Text) == "" {
				continue
			}
			texts = append(texts, f.Text)
			slots = append(slots, slot{item: i, field: f.Name})
		}
	}

	outcomes := m.adapter.TranslateEach(ctx, texts, target, source)
	values := make([]map[string]string, len(items))
	results := make([]fieldsOutcome, len(items))
	for i := range items {
		values[i] = map[string]string{}
	}
	for k, outcome := range outcomes {
		s := slots[k]
		if outcome.Err != nil {
			results[s.item].err = errors.Join(results[s.item].err, fmt.Errorf("%s: %w", s.field, outcome.Err))
			continue
		}
		values[s.item][s.field] = m.cleanField(s.field, outcome.Text)
		if results[s.item].provider == "" || s.field == content.FieldTitle {
			results[s.item].provider = outcome.Backend
		}
	}
	for i, item := range items {
		if results[i].err != nil {
			continue
		}
		if len(values[i]) == 0 {
			results[i].err = fmt.Errorf("content %s has no text to translate", item.ID)
			continue
		}
		results[i].fields = content.NewTranslatedFields(item.Type, values[i])
	}
	return results
}

// cachedFields resolves an item entirely from the text cache.
func (m *Manager) cachedFields(ctx context.Context, item content.Item, target string) (content.TranslatedFields, bool) {
	c := m.adapter.Cache()
	values := make(map[string]string, len(item.Fields))
	for _, f := range item.Fields {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		translated, ok := c.Get(ctx, f.Text, target)
		if !ok {
			return content.TranslatedFields{}, false
		}
		values[f.Name] = m.cleanField(f.Name, translated)
	}
	if len(values) == 0 {
		return content.TranslatedFields{}, false
	}
	return content.NewTranslatedFields(item.Type, values), true
}

// cleanField sanitizes HTML-bearing fields. The text cache holds raw
// provider output, so every path that serves translated text goes through it.
func (m *Manager) cleanField(name, text string) string {
	if name == content.FieldContent {
		return m.sanitizer.Sanitize(text)
	}
	return text
}

// applyStored fills results from the durable store and returns the indexes
// still unresolved. Read failures count as misses.
func (m *Manager) applyStored(ctx context.Context, items []content.Item, pending []int, target string, results []Result) []int {
	byType := map[content.Type][]string{}
	for _, idx := range pending {
		item := items[idx]
		byType[item.Type] = append(byType[item.Type], item.ID)
	}

	stored := map[content.Type]map[string]content.TranslatedFields{}
	for t, ids := range byType {
		found, err := m.store.GetTranslationBatch(ctx, ids, target, t)
		if err != nil {
			m.logger.Warn().Err(err).Str("content_type", string(t)).Str("lang", target).Msg("store read failed, treating as miss")
			continue
		}
		stored[t] = found
	}

	c := m.adapter.Cache()
	remaining := pending[:0:0]
	for _, idx := range pending {
		item := items[idx]
		fields, ok := stored[item.Type][item.ID]
		if !ok {
			remaining = append(remaining, idx)
			continue
		}
		results[idx].Fields = fields
		results[idx].Source = SourceStore
		for _, f := range item.Fields {
			if translated := fields.Get(f.Name); f.Text != "" && translated != "" {
				c.Set(ctx, f.Text, target, translated)
			}
		}
	}
	return remaining
}

func (m *Manager) groupBySource(items []content.Item, indexes []int) map[string][]int {
	groups := map[string][]int{}
	for _, idx := range indexes {
		source := m.sourceLanguage(items[idx])
		groups[source] = append(groups[source], idx)
	}
	return groups
}

// sourceLanguage trusts a supported declared language, otherwise detects
// from the title and the first body field.
func (m *Manager) sourceLanguage(item content.Item) string {
	if declared := language.NormalizeCode(item.SourceLang); language.IsSupported(declared) {
		return declared
	}
	sample := item.Text(content.FieldTitle)
	for _, name := range []string{content.FieldDescription, content.FieldExcerpt} {
		if body := item.Text(name); body != "" {
			sample += " " + body
			break
		}
	}
	return m.detector.Detect(sample)
}

func (m *Manager) persist(ctx context.Context, item content.Item, lang string, fields content.TranslatedFields, provider, path string) error {
	err := m.store.UpsertTranslation(ctx, db.UpsertTranslationParams{
		ContentID:    item.ID,
		Language:     lang,
		ContentType:  item.Type,
		Fields:       fields,
		ProviderName: provider,
	})
	if err != nil {
		m.logger.Warn().Err(err).Str("content_id", item.ID).Str("lang", lang).Str("path", path).Msg("store write failed")
		return err
	}
	m.metrics.TranslationWritten(string(item.Type), path)
	return nil
}

// persistLater writes a synchronous result through the scheduler so the
// response does not wait on the store. Without a scheduler, or when the
// queue is full, the record is left for backfill.
func (m *Manager) persistLater(result Result, provider string) {
	if m.scheduler == nil {
		return
	}
	if _, err := content.ParseID(result.Item.ID); err != nil {
		return
	}
	submitted := m.scheduler.Submit("persist:"+result.Item.ID, func(ctx context.Context) error {
		return m.persist(ctx, result.Item, result.Language, result.Fields, provider, "sync")
	})
	if !submitted {
		m.logger.Debug().Str("content_id", result.Item.ID).Msg("persist queue full, leaving record for backfill")
	}
}

func groupByType(items []content.Item) map[content.Type][]content.Item {
	out := map[content.Type][]content.Item{}
	for _, item := range items {
		out[item.Type] = append(out[item.Type], item)
	}
	return out
}

func missingLanguages(all, have []string) []string {
	var missing []string
	for _, lang := range all {
		if !slices.Contains(have, lang) {
			missing = append(missing, lang)
		}
	}
	return missing
}

func onlySource(needed map[string]bool, source string) bool {
	for lang := range needed {
		if lang != source {
			return false
		}
	}
	return true
}
