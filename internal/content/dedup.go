package content

import "strings"

// Posting is an externally sourced job posting as seen by the translation
// pipeline. ExternalID is the employer's own reference, shared across feeds
// when present; ContentID is feed specific.
type Posting struct {
	ContentID  string
	ExternalID string
	Title      string
	Company    string
	Location   string
}

// DedupKey builds the composite identity of a posting.
func DedupKey(p Posting) string {
	parts := []string{normalizeKeyPart(p.Title), normalizeKeyPart(p.Company), normalizeKeyPart(p.Location)}
	if ext := normalizeKeyPart(p.ExternalID); ext != "" {
		parts = append(parts, ext)
	}
	return strings.Join(parts, "|")
}

// Group is a set of postings sharing one DedupKey. The first posting seen
// is the representative that gets translated.
type Group struct {
	Key            string
	Representative Posting
	Members        []Posting
}

// Deduplicate groups postings by DedupKey, preserving first-seen order.
func Deduplicate(postings []Posting) []Group {
	groups := make([]Group, 0, len(postings))
	index := make(map[string]int, len(postings))
	for _, p := range postings {
		key := DedupKey(p)
		if idx, ok := index[key]; ok {
			groups[idx].Members = append(groups[idx].Members, p)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Key: key, Representative: p, Members: []Posting{p}})
	}
	return groups
}

func normalizeKeyPart(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}
