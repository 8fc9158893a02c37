package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wirsuchen.de/backend/internal/content"
)

// ListingFilter narrows a public listing. Empty strings disable a filter.
type ListingFilter struct {
	Type     content.Type
	Language string
	Search   string
	Location string
	Category string
}

// ListingRow is one listed item. Translation is set for rows of the
// translated partition.
type ListingRow struct {
	Item        content.Item
	Company     string
	Location    string
	Category    string
	Featured    bool
	Urgent      bool
	CreatedAt   time.Time
	Translation *content.TranslatedFields
}

// listingBase joins each item to its record in the requested language so
// both partitions share one filter predicate. Parameters $1 to $6 are
// language, type, search, location, category and the partition flag.
func listingBase(tbl contentTable) string {
	return fmt.Sprintf(`
FROM %s c
LEFT JOIN content_translations ct
	ON ct.content_id = c.content_id
	AND ct.language = $1
	AND ct.content_type = $2
WHERE %s
  AND ($3 = '' OR (%s) ILIKE '%%' || $3 || '%%')
  AND ($4 = '' OR (%s) ILIKE '%%' || $4 || '%%')
  AND ($5 = '' OR lower(%s) = lower($5))
  AND (ct.id IS NOT NULL) = $6
`, tbl.name, tbl.visible, tbl.search, tbl.location, tbl.category)
}

func listingArgs(f ListingFilter, translated bool) []any {
	return []any{
		f.Language,
		string(f.Type),
		escapeLike(strings.TrimSpace(f.Search)),
		escapeLike(strings.TrimSpace(f.Location)),
		strings.TrimSpace(f.Category),
		translated,
	}
}

// likeEscaper quotes LIKE metacharacters for Postgres' default escape
// character so user input only matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// CountListing counts one partition of a listing: items with a record in
// f.Language when translated is true, items without one otherwise.
func (p *Pool) CountListing(ctx context.Context, f ListingFilter, translated bool) (int64, error) {
	tbl, err := tableFor(f.Type)
	if err != nil {
		return 0, err
	}

	q := "SELECT COUNT(*)::BIGINT" + listingBase(tbl)
	var count int64
	if err := p.QueryRow(ctx, q, listingArgs(f, translated)...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s listing: %w", f.Type, err)
	}
	return count, nil
}

// ListListing reads a range of one partition in listing order.
func (p *Pool) ListListing(ctx context.Context, f ListingFilter, translated bool, offset, limit int) ([]ListingRow, error) {
	if limit <= 0 {
		return []ListingRow{}, nil
	}
	tbl, err := tableFor(f.Type)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
SELECT
	%s,
	ct.translated_fields
%s
ORDER BY %s
OFFSET $7
LIMIT $8
`, tbl.columns(), listingBase(tbl), tbl.order)

	args := append(listingArgs(f, translated), max(offset, 0), limit)
	rows, err := p.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s listing: %w", f.Type, err)
	}
	defer rows.Close()

	items := make([]ListingRow, 0, limit)
	for rows.Next() {
		var stored []byte
		row, err := scanContentRow(rows, f.Type, tbl, &stored)
		if err != nil {
			return nil, fmt.Errorf("scan %s listing row: %w", f.Type, err)
		}
		item := ListingRow{
			Item:      row.Item,
			Company:   row.Company,
			Location:  row.Location,
			Category:  row.Category,
			Featured:  row.Featured,
			Urgent:    row.Urgent,
			CreatedAt: row.CreatedAt,
		}
		if len(stored) > 0 {
			if fields, err := content.DecodeTranslatedFields(f.Type, stored); err == nil {
				item.Translation = &fields
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s listing rows: %w", f.Type, err)
	}
	return items, nil
}
