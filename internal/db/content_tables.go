package db

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"wirsuchen.de/backend/internal/content"
)

// contentTable describes how one content type is stored. Every expression
// is evaluated against the alias c.
type contentTable struct {
	name     string
	fields   []string
	search   string
	company  string
	location string
	category string
	featured string
	urgent   string
	created  string
	external string
	visible  string
	order    string
}

var contentTables = map[content.Type]contentTable{
	content.TypeJob: {
		name:     "jobs",
		fields:   []string{"c.title", "c.description"},
		search:   "c.title || ' ' || c.description",
		company:  "c.company",
		location: "c.location",
		category: "c.category",
		featured: "c.is_featured",
		urgent:   "c.is_urgent",
		created:  "c.created_at",
		external: "COALESCE(c.external_id, '')",
		visible:  "c.status = 'active'",
		order:    "c.is_featured DESC, c.is_urgent DESC, c.created_at DESC, c.id DESC",
	},
	content.TypeDeal: {
		name:     "deals",
		fields:   []string{"c.title", "c.description"},
		search:   "c.title || ' ' || c.description",
		company:  "c.merchant",
		location: "''",
		category: "c.category",
		featured: "c.is_featured",
		urgent:   "false",
		created:  "c.created_at",
		external: "COALESCE(c.external_id, '')",
		visible:  "(c.expires_at IS NULL OR c.expires_at > now())",
		order:    "c.is_featured DESC, c.created_at DESC, c.id DESC",
	},
	content.TypeBlog: {
		name:     "blog_posts",
		fields:   []string{"c.title", "c.excerpt", "c.content"},
		search:   "c.title || ' ' || c.excerpt",
		company:  "c.author",
		location: "''",
		category: "c.category",
		featured: "c.is_featured",
		urgent:   "false",
		created:  "COALESCE(c.published_at, c.created_at)",
		external: "''",
		visible:  "c.status = 'published'",
		order:    "c.is_featured DESC, c.published_at DESC NULLS LAST, c.id DESC",
	},
}

func tableFor(t content.Type) (contentTable, error) {
	tbl, ok := contentTables[t]
	if !ok {
		return contentTable{}, fmt.Errorf("%w: %q", content.ErrUnknownType, t)
	}
	return tbl, nil
}

// columns is the select list read by scanContentRow.
func (tbl contentTable) columns() string {
	cols := []string{"c.content_id", "c.source_lang"}
	cols = append(cols, tbl.fields...)
	cols = append(cols, tbl.company, tbl.location, tbl.category, tbl.featured, tbl.urgent, tbl.created, tbl.external)
	return strings.Join(cols, ",\n\t")
}

// contentRow is one content item with the attributes listings and bulk
// translation care about.
type contentRow struct {
	Item       content.Item
	Company    string
	Location   string
	Category   string
	Featured   bool
	Urgent     bool
	CreatedAt  time.Time
	ExternalID string
}

type scanner interface {
	Scan(dest ...any) error
}

// scanContentRow reads tbl.columns() followed by extra destinations.
func scanContentRow(row scanner, t content.Type, tbl contentTable, extra ...any) (contentRow, error) {
	var out contentRow
	texts := make([]string, len(tbl.fields))
	dest := []any{&out.Item.ID, &out.Item.SourceLang}
	for i := range texts {
		dest = append(dest, &texts[i])
	}
	dest = append(dest, &out.Company, &out.Location, &out.Category, &out.Featured, &out.Urgent, &out.CreatedAt, &out.ExternalID)
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return contentRow{}, err
	}

	out.Item.Type = t
	names := t.FieldNames()
	out.Item.Fields = make([]content.Field, len(names))
	for i, name := range names {
		out.Item.Fields[i] = content.Field{Name: name, Text: texts[i]}
	}
	return out, nil
}

// placeholders renders n positional parameters starting at $start.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ", ")
}
