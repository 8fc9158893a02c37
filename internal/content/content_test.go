package content

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildAndParseID(t *testing.T) {
	t.Parallel()

	id, err := BuildID(TypeJob, "Arbeitsagentur", "7f9c2a1e-1b2c-4d5e-8f90-123456789abc")
	if err != nil {
		t.Fatalf("build id: %v", err)
	}
	if id != "job-arbeitsagentur-7f9c2a1e-1b2c-4d5e-8f90-123456789abc" {
		t.Fatalf("unexpected id: %q", id)
	}

	parsed, err := ParseID(id)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}
	if parsed.Type != TypeJob || parsed.Source != "arbeitsagentur" || parsed.OriginalID != "7f9c2a1e-1b2c-4d5e-8f90-123456789abc" {
		t.Fatalf("unexpected parsed id: %+v", parsed)
	}
}

func TestParseID_Malformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "job", "job-adzuna", "job--1", "coupon-x-1"} {
		if _, err := ParseID(raw); !errors.Is(err, ErrContentIDMalformed) {
			t.Fatalf("ParseID(%q): expected ErrContentIDMalformed, got %v", raw, err)
		}
	}
	if _, err := BuildID(TypeDeal, "ama-zon", "1"); !errors.Is(err, ErrContentIDMalformed) {
		t.Fatalf("expected hyphenated source to be rejected, got %v", err)
	}
	if _, err := BuildID(TypeDeal, "awin", ""); !errors.Is(err, ErrContentIDMalformed) {
		t.Fatalf("expected empty original id to be rejected, got %v", err)
	}
}

func TestTranslatedFields_EncodeDecode(t *testing.T) {
	t.Parallel()

	job := NewTranslatedFields(TypeJob, map[string]string{
		FieldTitle:       "Softwareentwickler",
		FieldDescription: "Backend mit Go",
		FieldExcerpt:     "ignored",
	})
	raw, err := job.Encode()
	if err != nil {
		t.Fatalf("encode job fields: %v", err)
	}
	if strings.Contains(string(raw), "excerpt") {
		t.Fatalf("job fields leaked blog-only field: %s", raw)
	}

	decoded, err := DecodeTranslatedFields(TypeJob, raw)
	if err != nil {
		t.Fatalf("decode job fields: %v", err)
	}
	if decoded != job {
		t.Fatalf("unexpected decoded fields: %+v", decoded)
	}

	if _, err := DecodeTranslatedFields(TypeBlog, []byte(`{"title":"x","description":"y"}`)); !errors.Is(err, ErrFieldsInvalid) {
		t.Fatalf("expected blog schema to reject description, got %v", err)
	}
	if _, err := (TranslatedFields{Type: TypeDeal}).Encode(); !errors.Is(err, ErrFieldsInvalid) {
		t.Fatalf("expected empty title to be rejected, got %v", err)
	}
}

func TestItemIdentity(t *testing.T) {
	t.Parallel()

	item := Item{
		ID:   "blog-cms-42",
		Type: TypeBlog,
		Fields: []Field{
			{Name: FieldTitle, Text: "Hallo"},
			{Name: FieldExcerpt, Text: "Kurz"},
			{Name: FieldContent, Text: "<p>Text</p>"},
		},
	}
	got := item.Identity()
	if got.Title != "Hallo" || got.Excerpt != "Kurz" || got.Content != "<p>Text</p>" || got.Type != TypeBlog {
		t.Fatalf("unexpected identity fields: %+v", got)
	}
	if item.Text(FieldDescription) != "" {
		t.Fatalf("expected missing field to be empty")
	}
}

func TestDeduplicate(t *testing.T) {
	t.Parallel()

	postings := []Posting{
		{ContentID: "job-adzuna-1", Title: "Senior Go Developer ", Company: "ACME GmbH", Location: "Berlin"},
		{ContentID: "job-jooble-99", Title: "senior go  developer", Company: "acme gmbh", Location: " berlin"},
		{ContentID: "job-adzuna-2", Title: "Senior Go Developer", Company: "ACME GmbH", Location: "München"},
		{ContentID: "job-jooble-100", Title: "Senior Go Developer", Company: "ACME GmbH", Location: "Berlin", ExternalID: "REQ-7"},
	}

	groups := Deduplicate(postings)
	if len(groups) != 3 {
		t.Fatalf("unexpected group count: got %d want 3", len(groups))
	}
	if groups[0].Representative.ContentID != "job-adzuna-1" || len(groups[0].Members) != 2 {
		t.Fatalf("expected first two postings to merge: %+v", groups[0])
	}
	if groups[0].Members[1].ContentID != "job-jooble-99" {
		t.Fatalf("unexpected member order: %+v", groups[0].Members)
	}
}
