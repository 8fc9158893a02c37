package listing

import "testing"

func TestPlanStraddlesPartitionSplit(t *testing.T) {
	t.Parallel()

	first := Plan(7, 15, 1, 10)
	if first.Total != 22 || first.Pages != 3 {
		t.Fatalf("page 1 total/pages = %d/%d, want 22/3", first.Total, first.Pages)
	}
	if first.Translated != (Segment{Offset: 0, Limit: 7}) {
		t.Fatalf("page 1 translated = %+v, want offset 0 limit 7", first.Translated)
	}
	if first.Untranslated != (Segment{Offset: 0, Limit: 3}) {
		t.Fatalf("page 1 untranslated = %+v, want offset 0 limit 3", first.Untranslated)
	}

	second := Plan(7, 15, 2, 10)
	if second.Total != 22 {
		t.Fatalf("page 2 total = %d, want 22", second.Total)
	}
	if second.Translated.Limit != 0 {
		t.Fatalf("page 2 translated = %+v, want none", second.Translated)
	}
	if second.Untranslated != (Segment{Offset: 3, Limit: 10}) {
		t.Fatalf("page 2 untranslated = %+v, want offset 3 limit 10", second.Untranslated)
	}

	third := Plan(7, 15, 3, 10)
	if third.Untranslated != (Segment{Offset: 13, Limit: 2}) || third.Translated.Limit != 0 {
		t.Fatalf("page 3 = %+v, want only untranslated offset 13 limit 2", third)
	}
}

func TestPlanCoversEveryItemExactlyOnce(t *testing.T) {
	t.Parallel()

	const translated, untranslated, limit = 13, 9, 5
	seenTranslated := 0
	seenUntranslated := 0
	for page := 1; page <= 5; page++ {
		p := Plan(translated, untranslated, page, limit)
		if p.Translated.Limit > 0 && p.Translated.Offset != seenTranslated {
			t.Fatalf("page %d translated offset = %d, want %d", page, p.Translated.Offset, seenTranslated)
		}
		if p.Untranslated.Limit > 0 && p.Untranslated.Offset != seenUntranslated {
			t.Fatalf("page %d untranslated offset = %d, want %d", page, p.Untranslated.Offset, seenUntranslated)
		}
		if seenUntranslated > 0 && p.Translated.Limit > 0 {
			t.Fatalf("page %d returns translated items after untranslated ones began", page)
		}
		seenTranslated += p.Translated.Limit
		seenUntranslated += p.Untranslated.Limit
	}
	if seenTranslated != translated || seenUntranslated != untranslated {
		t.Fatalf("covered %d/%d, want %d/%d", seenTranslated, seenUntranslated, translated, untranslated)
	}
}

func TestPlanPastLastPage(t *testing.T) {
	t.Parallel()

	p := Plan(2, 3, 4, 10)
	if p.Translated.Limit != 0 || p.Untranslated.Limit != 0 {
		t.Fatalf("plan = %+v, want empty page", p)
	}
	if p.Total != 5 || p.Pages != 1 {
		t.Fatalf("total/pages = %d/%d, want 5/1", p.Total, p.Pages)
	}
}

func TestPlanEmptyListing(t *testing.T) {
	t.Parallel()

	p := Plan(0, 0, 1, 20)
	if p.Total != 0 || p.Pages != 0 || p.Translated.Limit != 0 || p.Untranslated.Limit != 0 {
		t.Fatalf("plan = %+v, want empty", p)
	}
}
