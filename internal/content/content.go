package content

import (
	"errors"
	"fmt"
	"strings"
)

// Type is the kind of translatable content.
type Type string

const (
	TypeJob  Type = "job"
	TypeDeal Type = "deal"
	TypeBlog Type = "blog"
)

// Field names used across content types.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldExcerpt     = "excerpt"
	FieldContent     = "content"
)

var (
	ErrContentIDMalformed = errors.New("content id is malformed")
	ErrUnknownType        = errors.New("unknown content type")
)

// Types lists every content type in reporting order.
func Types() []Type {
	return []Type{TypeJob, TypeDeal, TypeBlog}
}

func ParseType(raw string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeJob:
		return TypeJob, nil
	case TypeDeal:
		return TypeDeal, nil
	case TypeBlog:
		return TypeBlog, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
}

// FieldNames returns the translatable fields of t in display order.
func (t Type) FieldNames() []string {
	if t == TypeBlog {
		return []string{FieldTitle, FieldExcerpt, FieldContent}
	}
	return []string{FieldTitle, FieldDescription}
}

// Field is one named source text.
type Field struct {
	Name string
	Text string
}

// Item is a translatable unit: a job posting, a deal or a blog post.
type Item struct {
	ID         string
	Type       Type
	SourceLang string
	Fields     []Field
}

// Text returns the source text of the named field.
func (i Item) Text(name string) string {
	for _, f := range i.Fields {
		if f.Name == name {
			return f.Text
		}
	}
	return ""
}

// Identity returns the item's own fields as a TranslatedFields value.
func (i Item) Identity() TranslatedFields {
	values := make(map[string]string, len(i.Fields))
	for _, f := range i.Fields {
		values[f.Name] = f.Text
	}
	return NewTranslatedFields(i.Type, values)
}

// ID is a parsed content identifier of the form <type>-<source>-<original id>.
type ID struct {
	Type       Type
	Source     string
	OriginalID string
}

func (id ID) String() string {
	return string(id.Type) + "-" + id.Source + "-" + id.OriginalID
}

// BuildID composes a content identifier. The source may not contain '-'
// because it delimits the original id, which may.
func BuildID(t Type, source, originalID string) (string, error) {
	if _, err := ParseType(string(t)); err != nil {
		return "", err
	}
	src := strings.ToLower(strings.TrimSpace(source))
	orig := strings.TrimSpace(originalID)
	if src == "" || orig == "" || strings.Contains(src, "-") || strings.ContainsAny(src+orig, " \t\n") {
		return "", fmt.Errorf("%w: source=%q original_id=%q", ErrContentIDMalformed, source, originalID)
	}
	return ID{Type: t, Source: src, OriginalID: orig}.String(), nil
}

func ParseID(raw string) (ID, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return ID{}, fmt.Errorf("%w: %q", ErrContentIDMalformed, raw)
	}
	t, err := ParseType(parts[0])
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q", ErrContentIDMalformed, raw)
	}
	return ID{Type: t, Source: parts[1], OriginalID: parts[2]}, nil
}
