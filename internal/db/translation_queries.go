package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wirsuchen.de/backend/internal/content"
	"wirsuchen.de/backend/internal/language"
)

// UpsertTranslationParams is one translation record to write.
type UpsertTranslationParams struct {
	ContentID    string
	Language     string
	ContentType  content.Type
	Fields       content.TranslatedFields
	ProviderName string
}

// BulkCandidate is a content item considered by a bulk translation pass.
type BulkCandidate struct {
	Item       content.Item
	ExternalID string
	Company    string
	Location   string
}

// CoverageRow counts stored translations for one content type.
type CoverageRow struct {
	ContentType     content.Type
	Total           int64
	FullyTranslated int64
	PerLanguage     map[string]int64
}

// ItemTranslationRow is one stored language of a single item.
type ItemTranslationRow struct {
	TranslationUUID string
	Language        string
	ProviderName    string
	UpdatedAt       time.Time
}

func (p *Pool) orm(ctx context.Context) (*gorm.DB, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}
	return p.gdb.WithContext(ctx), nil
}

// GetTranslationBatch loads the stored translations of many items in one
// query. Items without a record, or with a record that no longer matches
// its type's schema, are absent from the result.
func (p *Pool) GetTranslationBatch(ctx context.Context, contentIDs []string, lang string, t content.Type) (map[string]content.TranslatedFields, error) {
	out := make(map[string]content.TranslatedFields, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}
	gdb, err := p.orm(ctx)
	if err != nil {
		return nil, err
	}

	var rows []ContentTranslation
	err = gdb.
		Select("content_id", "translated_fields").
		Where("content_id IN ? AND language = ? AND content_type = ?", contentIDs, lang, string(t)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query translation batch: %w", err)
	}

	for _, row := range rows {
		fields, err := content.DecodeTranslatedFields(t, row.TranslatedFields)
		if err != nil {
			continue
		}
		out[row.ContentID] = fields
	}
	return out, nil
}

// UpsertTranslation writes one record; the last write for a content id,
// language and type wins.
func (p *Pool) UpsertTranslation(ctx context.Context, params UpsertTranslationParams) error {
	lang := language.NormalizeCode(params.Language)
	if !language.IsSupported(lang) {
		return fmt.Errorf("upsert translation %s: unsupported language %q", params.ContentID, params.Language)
	}
	if params.Fields.Type != params.ContentType {
		return fmt.Errorf("upsert translation %s: %w: fields of type %q for %q",
			params.ContentID, content.ErrFieldsInvalid, params.Fields.Type, params.ContentType)
	}
	encoded, err := params.Fields.Encode()
	if err != nil {
		return fmt.Errorf("upsert translation %s: %w", params.ContentID, err)
	}

	const q = `
INSERT INTO content_translations (
	translation_uuid,
	content_id,
	language,
	content_type,
	translated_fields,
	provider_name,
	created_at,
	updated_at
)
VALUES ($1, $2, $3, $4, $5::jsonb, $6, now(), now())
ON CONFLICT (content_id, language, content_type)
DO UPDATE SET
	translated_fields = EXCLUDED.translated_fields,
	provider_name = EXCLUDED.provider_name,
	updated_at = now()
`

	tag, err := p.Exec(
		ctx,
		q,
		uuid.NewString(),
		strings.TrimSpace(params.ContentID),
		lang,
		string(params.ContentType),
		string(encoded),
		params.ProviderName,
	)
	if err != nil {
		return fmt.Errorf("upsert translation %s: %w", params.ContentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("upsert translation %s: no row written", params.ContentID)
	}
	return nil
}

// ListTranslatedLanguages returns, per content id, the languages that have a
// stored record. Ids without any record are absent.
func (p *Pool) ListTranslatedLanguages(ctx context.Context, contentIDs []string, t content.Type) (map[string][]string, error) {
	out := make(map[string][]string, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}
	gdb, err := p.orm(ctx)
	if err != nil {
		return nil, err
	}

	var rows []ContentTranslation
	err = gdb.
		Select("content_id", "language").
		Where("content_id IN ? AND content_type = ?", contentIDs, string(t)).
		Order("content_id, language").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query translated languages: %w", err)
	}
	for _, row := range rows {
		out[row.ContentID] = append(out[row.ContentID], row.Language)
	}
	return out, nil
}

// ItemTranslationCoverage lists the stored languages of one item.
func (p *Pool) ItemTranslationCoverage(ctx context.Context, contentID string, t content.Type) ([]ItemTranslationRow, error) {
	gdb, err := p.orm(ctx)
	if err != nil {
		return nil, err
	}

	var rows []ContentTranslation
	err = gdb.
		Where("content_id = ? AND content_type = ?", strings.TrimSpace(contentID), string(t)).
		Order("language").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query item translation coverage: %w", err)
	}

	out := make([]ItemTranslationRow, len(rows))
	for i, row := range rows {
		out[i] = ItemTranslationRow{
			TranslationUUID: row.TranslationUUID,
			Language:        row.Language,
			ProviderName:    row.ProviderName,
			UpdatedAt:       row.UpdatedAt,
		}
	}
	return out, nil
}

// ListBulkCandidates pages through visible items of one type in insertion
// order, which stays stable while new content arrives.
func (p *Pool) ListBulkCandidates(ctx context.Context, t content.Type, offset, limit int) ([]BulkCandidate, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}
	tbl, err := tableFor(t)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
SELECT
	%s
FROM %s c
WHERE %s
ORDER BY c.id
OFFSET $1
LIMIT $2
`, tbl.columns(), tbl.name, tbl.visible)

	rows, err := p.Query(ctx, q, max(offset, 0), limit)
	if err != nil {
		return nil, fmt.Errorf("query bulk candidates: %w", err)
	}
	defer rows.Close()

	items := make([]BulkCandidate, 0, limit)
	for rows.Next() {
		row, err := scanContentRow(rows, t, tbl)
		if err != nil {
			return nil, fmt.Errorf("scan bulk candidate: %w", err)
		}
		items = append(items, BulkCandidate{
			Item:       row.Item,
			ExternalID: row.ExternalID,
			Company:    row.Company,
			Location:   row.Location,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bulk candidates: %w", err)
	}
	return items, nil
}

// CountMissingTranslations counts visible items lacking a record in at
// least one of the languages.
func (p *Pool) CountMissingTranslations(ctx context.Context, t content.Type, languages []string) (int64, error) {
	total, full, err := p.typeCoverage(ctx, t, languages)
	if err != nil {
		return 0, err
	}
	return total - full, nil
}

// TranslationCoverage reports totals and per-language counts for every
// content type.
func (p *Pool) TranslationCoverage(ctx context.Context, languages []string) ([]CoverageRow, error) {
	out := make([]CoverageRow, 0, len(content.Types()))
	for _, t := range content.Types() {
		total, full, err := p.typeCoverage(ctx, t, languages)
		if err != nil {
			return nil, err
		}
		perLanguage, err := p.languageCounts(ctx, t, languages)
		if err != nil {
			return nil, err
		}
		out = append(out, CoverageRow{ContentType: t, Total: total, FullyTranslated: full, PerLanguage: perLanguage})
	}
	return out, nil
}

func (p *Pool) typeCoverage(ctx context.Context, t content.Type, languages []string) (total, full int64, err error) {
	if len(languages) == 0 {
		return 0, 0, fmt.Errorf("at least one language is required")
	}
	tbl, err := tableFor(t)
	if err != nil {
		return 0, 0, err
	}

	q := fmt.Sprintf(`
SELECT
	COUNT(*)::BIGINT,
	COUNT(*) FILTER (WHERE COALESCE(tr.langs, 0) >= $2)::BIGINT
FROM %s c
LEFT JOIN (
	SELECT ct.content_id, COUNT(DISTINCT ct.language) AS langs
	FROM content_translations ct
	WHERE ct.content_type = $1
	  AND ct.language IN (%s)
	GROUP BY ct.content_id
) tr ON tr.content_id = c.content_id
WHERE %s
`, tbl.name, placeholders(3, len(languages)), tbl.visible)

	args := []any{string(t), len(languages)}
	for _, lang := range languages {
		args = append(args, lang)
	}
	if err := p.QueryRow(ctx, q, args...).Scan(&total, &full); err != nil {
		return 0, 0, fmt.Errorf("query %s translation coverage: %w", t, err)
	}
	return total, full, nil
}

func (p *Pool) languageCounts(ctx context.Context, t content.Type, languages []string) (map[string]int64, error) {
	tbl, err := tableFor(t)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
SELECT ct.language, COUNT(*)::BIGINT
FROM content_translations ct
JOIN %s c
	ON c.content_id = ct.content_id
WHERE ct.content_type = $1
  AND %s
GROUP BY ct.language
`, tbl.name, tbl.visible)

	rows, err := p.Query(ctx, q, string(t))
	if err != nil {
		return nil, fmt.Errorf("query %s language counts: %w", t, err)
	}
	defer rows.Close()

	out := make(map[string]int64, len(languages))
	for _, lang := range languages {
		out[lang] = 0
	}
	for rows.Next() {
		var (
			lang  string
			count int64
		)
		if err := rows.Scan(&lang, &count); err != nil {
			return nil, fmt.Errorf("scan language count: %w", err)
		}
		if _, tracked := out[lang]; tracked {
			out[lang] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate language counts: %w", err)
	}
	return out, nil
}
