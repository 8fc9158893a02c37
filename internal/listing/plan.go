// Package listing serves paginated listings in translated-first order.
//
// A listing is split into two virtual partitions: items that already have a
// stored translation in the requested language, then all others. Each
// partition keeps its own ordering, and page boundaries are computed over
// the concatenation, so a page may straddle the split.
package listing

// Segment is a physical range within one partition. A zero Limit means the
// partition does not contribute to the page.
type Segment struct {
	Offset int
	Limit  int
}

type PagePlan struct {
	Page         int
	Limit        int
	Total        int64
	Pages        int
	Translated   Segment
	Untranslated Segment
}

// Plan maps a 1-based page of size limit onto the two partitions.
func Plan(translatedCount, untranslatedCount int64, page, limit int) PagePlan {
	translatedCount = max(translatedCount, 0)
	untranslatedCount = max(untranslatedCount, 0)
	page = max(page, 1)
	limit = max(limit, 1)

	total := translatedCount + untranslatedCount
	plan := PagePlan{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}

	start := int64(page-1) * int64(limit)
	end := min(start+int64(limit), total)
	if start >= end {
		return plan
	}

	if start < translatedCount {
		plan.Translated = Segment{Offset: int(start), Limit: int(min(end, translatedCount) - start)}
	}
	if end > translatedCount {
		from := max(start, translatedCount)
		plan.Untranslated = Segment{Offset: int(from - translatedCount), Limit: int(end - from)}
	}
	return plan
}
