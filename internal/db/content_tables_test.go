package db

import (
	"errors"
	"strings"
	"testing"
	"time"

	"wirsuchen.de/backend/internal/content"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *bool:
			*d = v.(bool)
		case *time.Time:
			*d = v.(time.Time)
		case *[]byte:
			*d = v.([]byte)
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	if got := placeholders(3, 4); got != "$3, $4, $5, $6" {
		t.Fatalf("placeholders(3, 4) = %q", got)
	}
	if got := placeholders(1, 0); got != "" {
		t.Fatalf("placeholders(1, 0) = %q, want empty", got)
	}
}

func TestTableForUnknownType(t *testing.T) {
	t.Parallel()

	if _, err := tableFor(content.Type("podcast")); !errors.Is(err, content.ErrUnknownType) {
		t.Fatalf("tableFor(podcast) error = %v, want ErrUnknownType", err)
	}
	for _, ct := range content.Types() {
		tbl, err := tableFor(ct)
		if err != nil {
			t.Fatalf("tableFor(%s) error = %v", ct, err)
		}
		if got, want := len(tbl.fields), len(ct.FieldNames()); got != want {
			t.Fatalf("%s table has %d text columns, want %d", ct, got, want)
		}
	}
}

func TestColumnsListsFieldsInOrder(t *testing.T) {
	t.Parallel()

	tbl, _ := tableFor(content.TypeBlog)
	cols := tbl.columns()
	if !strings.HasPrefix(cols, "c.content_id,") {
		t.Fatalf("columns() = %q, want content_id first", cols)
	}
	title := strings.Index(cols, "c.title")
	excerpt := strings.Index(cols, "c.excerpt")
	body := strings.Index(cols, "c.content,")
	if title < 0 || excerpt < title || body < excerpt {
		t.Fatalf("columns() = %q, want title, excerpt, content in order", cols)
	}
}

func TestScanContentRow(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tbl, _ := tableFor(content.TypeJob)
	row := fakeRow{values: []any{
		"job-jobsch-42", "de",
		"Koch", "Wir suchen einen Koch",
		"Hotel Alpina", "Zürich", "gastro",
		true, false, created, "EXT-1",
		[]byte(`{"title":"Cook","description":"We need a cook"}`),
	}}

	var raw []byte
	got, err := scanContentRow(row, content.TypeJob, tbl, &raw)
	if err != nil {
		t.Fatalf("scanContentRow() error = %v", err)
	}
	if got.Item.ID != "job-jobsch-42" || got.Item.Type != content.TypeJob || got.Item.SourceLang != "de" {
		t.Fatalf("item = %+v", got.Item)
	}
	if got.Item.Text(content.FieldTitle) != "Koch" || got.Item.Text(content.FieldDescription) != "Wir suchen einen Koch" {
		t.Fatalf("fields = %+v", got.Item.Fields)
	}
	if got.Company != "Hotel Alpina" || got.Location != "Zürich" || !got.Featured || got.Urgent || !got.CreatedAt.Equal(created) || got.ExternalID != "EXT-1" {
		t.Fatalf("row = %+v", got)
	}
	if !strings.Contains(string(raw), "Cook") {
		t.Fatalf("extra destination not scanned: %q", raw)
	}
}

func TestScanContentRowPropagatesError(t *testing.T) {
	t.Parallel()

	tbl, _ := tableFor(content.TypeDeal)
	if _, err := scanContentRow(fakeRow{err: errors.New("boom")}, content.TypeDeal, tbl); err == nil {
		t.Fatal("scanContentRow() error = nil, want scan error")
	}
}
