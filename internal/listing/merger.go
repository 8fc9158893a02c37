package listing

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"wirsuchen.de/backend/internal/content"
	"wirsuchen.de/backend/internal/db"
	"wirsuchen.de/backend/internal/translation"
)

// Source answers count and range queries for one partition of a listing.
type Source interface {
	CountListing(ctx context.Context, f db.ListingFilter, translated bool) (int64, error)
	ListListing(ctx context.Context, f db.ListingFilter, translated bool, offset, limit int) ([]db.ListingRow, error)
}

// Translator is the part of the translation manager a listing needs.
type Translator interface {
	TranslateItems(ctx context.Context, items []content.Item, lang string) []translation.Result
	ScheduleBackfill(items []content.Item, lang string) int
}

type Item struct {
	ContentID string                   `json:"contentId"`
	Type      content.Type             `json:"type"`
	Language  string                   `json:"language"`
	Source    translation.Source       `json:"translationSource"`
	Fields    content.TranslatedFields `json:"fields"`
	Company   string                   `json:"company,omitempty"`
	Location  string                   `json:"location,omitempty"`
	Category  string                   `json:"category,omitempty"`
	Featured  bool                     `json:"featured"`
	Urgent    bool                     `json:"urgent"`
	CreatedAt time.Time                `json:"createdAt"`
}

// Sources tells how many items of a page came from where.
type Sources struct {
	Translated    int `json:"translated"`
	Untranslated  int `json:"untranslated"`
	TranslatedNow int `json:"translated_now"`
	Backfill      int `json:"backfill_scheduled"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type Page struct {
	Items      []Item     `json:"items"`
	Sources    Sources    `json:"sources"`
	Pagination Pagination `json:"pagination"`
}

type Request struct {
	Filter db.ListingFilter
	Page   int
	Limit  int
}

type Merger struct {
	source     Source
	translator Translator
	logger     zerolog.Logger
}

func NewMerger(source Source, translator Translator, logger zerolog.Logger) *Merger {
	return &Merger{
		source:     source,
		translator: translator,
		logger:     logger.With().Str("component", "listing").Logger(),
	}
}

// FetchPage counts both partitions, reads only the ranges the page needs and
// translates the untranslated part of the page before returning. Backfill
// for that part is scheduled without waiting.
func (m *Merger) FetchPage(ctx context.Context, req Request) (Page, error) {
	f := req.Filter
	translatedCount, err := m.source.CountListing(ctx, f, true)
	if err != nil {
		return Page{}, fmt.Errorf("count translated: %w", err)
	}
	untranslatedCount, err := m.source.CountListing(ctx, f, false)
	if err != nil {
		return Page{}, fmt.Errorf("count untranslated: %w", err)
	}

	plan := Plan(translatedCount, untranslatedCount, req.Page, req.Limit)
	page := Page{
		Pagination: Pagination{
			Page:  plan.Page,
			Limit: plan.Limit,
			Total: plan.Total,
			Pages: plan.Pages,
		},
	}

	var translatedRows, untranslatedRows []db.ListingRow
	if plan.Translated.Limit > 0 {
		translatedRows, err = m.source.ListListing(ctx, f, true, plan.Translated.Offset, plan.Translated.Limit)
		if err != nil {
			return Page{}, fmt.Errorf("list translated: %w", err)
		}
	}
	if plan.Untranslated.Limit > 0 {
		untranslatedRows, err = m.source.ListListing(ctx, f, false, plan.Untranslated.Offset, plan.Untranslated.Limit)
		if err != nil {
			return Page{}, fmt.Errorf("list untranslated: %w", err)
		}
	}

	rows := slices.Concat(translatedRows, untranslatedRows)
	page.Items = make([]Item, len(rows))

	// Stored records that failed to decode are translated like the rest but
	// keep their place on the page.
	var pending []int
	for i, row := range rows {
		if i < len(translatedRows) && row.Translation != nil {
			page.Items[i] = newItem(row, f.Language, translation.SourceStore, *row.Translation)
			page.Sources.Translated++
			continue
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return page, nil
	}

	items := make([]content.Item, len(pending))
	for i, idx := range pending {
		items[i] = rows[idx].Item
	}
	results := m.translator.TranslateItems(ctx, items, f.Language)

	backfill := make([]content.Item, 0, len(results))
	for i, result := range results {
		idx := pending[i]
		page.Items[idx] = newItem(rows[idx], result.Language, result.Source, result.Fields)
		page.Sources.Untranslated++
		if result.Source == translation.SourceTranslated || result.Source == translation.SourceCache {
			page.Sources.TranslatedNow++
		}
		if result.Source != translation.SourceTranslated {
			backfill = append(backfill, result.Item)
		}
	}
	page.Sources.Backfill = m.translator.ScheduleBackfill(backfill, f.Language)

	m.logger.Debug().
		Str("content_type", string(f.Type)).
		Str("lang", f.Language).
		Int("page", plan.Page).
		Int("translated", page.Sources.Translated).
		Int("untranslated", page.Sources.Untranslated).
		Int("translated_now", page.Sources.TranslatedNow).
		Msg("listing page served")
	return page, nil
}

func newItem(row db.ListingRow, lang string, source translation.Source, fields content.TranslatedFields) Item {
	return Item{
		ContentID: row.Item.ID,
		Type:      row.Item.Type,
		Language:  lang,
		Source:    source,
		Fields:    fields,
		Company:   row.Company,
		Location:  row.Location,
		Category:  row.Category,
		Featured:  row.Featured,
		Urgent:    row.Urgent,
		CreatedAt: row.CreatedAt,
	}
}
