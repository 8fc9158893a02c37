package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wirsuchen.de/backend/internal/content"
)

func TestUpsertTranslationRejectsBeforeWriting(t *testing.T) {
	t.Parallel()

	job := content.NewTranslatedFields(content.TypeJob, map[string]string{
		content.FieldTitle:       "Koch",
		content.FieldDescription: "Kochen",
	})
	cases := []struct {
		name    string
		params  UpsertTranslationParams
		want    string
		wantErr error
	}{
		{
			name:   "unsupported language",
			params: UpsertTranslationParams{ContentID: "job-feed-1", Language: "es", ContentType: content.TypeJob, Fields: job},
			want:   "unsupported language",
		},
		{
			name:    "fields of another type",
			params:  UpsertTranslationParams{ContentID: "job-feed-1", Language: "de", ContentType: content.TypeBlog, Fields: job},
			wantErr: content.ErrFieldsInvalid,
		},
		{
			name: "schema rejects empty title",
			params: UpsertTranslationParams{
				ContentID:   "job-feed-1",
				Language:    "de",
				ContentType: content.TypeJob,
				Fields:      content.NewTranslatedFields(content.TypeJob, map[string]string{content.FieldDescription: "Kochen"}),
			},
			wantErr: content.ErrFieldsInvalid,
		},
	}

	// A pool without a connection fails any write, so reaching Exec would
	// surface as "not initialized".
	pool := &Pool{}
	for _, tc := range cases {
		err := pool.UpsertTranslation(context.Background(), tc.params)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if strings.Contains(err.Error(), "not initialized") {
			t.Fatalf("%s: reached the database: %v", tc.name, err)
		}
		if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: error = %v, want %v", tc.name, err, tc.wantErr)
		}
		if tc.want != "" && !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error = %v, want %q", tc.name, err, tc.want)
		}
	}

	err := pool.UpsertTranslation(context.Background(), UpsertTranslationParams{
		ContentID: "job-feed-1", Language: "de-DE", ContentType: content.TypeJob, Fields: job,
	})
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("valid record error = %v, want it to reach Exec", err)
	}
}

func TestListingArgsEscapeLikeWildcards(t *testing.T) {
	t.Parallel()

	args := listingArgs(ListingFilter{
		Type:     content.TypeJob,
		Language: "de",
		Search:   " 100%_off ",
		Location: `C:\Berlin`,
		Category: "it_ops",
	}, true)

	if args[2] != `100\%\_off` {
		t.Fatalf("search arg = %q", args[2])
	}
	if args[3] != `C:\\Berlin` {
		t.Fatalf("location arg = %q", args[3])
	}
	if args[4] != "it_ops" {
		t.Fatalf("category arg = %q, compared with = and must stay raw", args[4])
	}
}
