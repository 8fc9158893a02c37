package content

import (
	"encoding/json"
	"errors"
	"fmt"

	"wirsuchen.de/backend/internal/schema"
)

var ErrFieldsInvalid = errors.New("translated fields are invalid")

// TranslatedFields is the translated field set of one item in one language.
// Which fields are meaningful depends on Type: title and description for
// jobs and deals, title, excerpt and content for blog posts.
type TranslatedFields struct {
	Type        Type
	Title       string
	Description string
	Excerpt     string
	Content     string
}

type postFieldsJSON struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type blogFieldsJSON struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt,omitempty"`
	Content string `json:"content,omitempty"`
}

// NewTranslatedFields keeps only the values belonging to t.
func NewTranslatedFields(t Type, values map[string]string) TranslatedFields {
	out := TranslatedFields{Type: t, Title: values[FieldTitle]}
	if t == TypeBlog {
		out.Excerpt = values[FieldExcerpt]
		out.Content = values[FieldContent]
	} else {
		out.Description = values[FieldDescription]
	}
	return out
}

func (f TranslatedFields) Get(name string) string {
	switch name {
	case FieldTitle:
		return f.Title
	case FieldDescription:
		return f.Description
	case FieldExcerpt:
		return f.Excerpt
	case FieldContent:
		return f.Content
	}
	return ""
}

// Map returns the populated fields keyed by name.
func (f TranslatedFields) Map() map[string]string {
	out := make(map[string]string, 3)
	for _, name := range f.Type.FieldNames() {
		out[name] = f.Get(name)
	}
	return out
}

func (f TranslatedFields) MarshalJSON() ([]byte, error) {
	if f.Type == TypeBlog {
		return json.Marshal(blogFieldsJSON{Title: f.Title, Excerpt: f.Excerpt, Content: f.Content})
	}
	return json.Marshal(postFieldsJSON{Title: f.Title, Description: f.Description})
}

// Encode serializes f for storage and rejects values that do not match the
// type's schema.
func (f TranslatedFields) Encode() ([]byte, error) {
	if _, err := ParseType(string(f.Type)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFieldsInvalid, err)
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal translated fields: %w", err)
	}
	if _, err := schema.Validate(schemaFor(f.Type), raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFieldsInvalid, err)
	}
	return raw, nil
}

// DecodeTranslatedFields parses a stored JSON blob for content of type t.
func DecodeTranslatedFields(t Type, raw []byte) (TranslatedFields, error) {
	if _, err := ParseType(string(t)); err != nil {
		return TranslatedFields{}, fmt.Errorf("%w: %v", ErrFieldsInvalid, err)
	}

	if t == TypeBlog {
		var blog blogFieldsJSON
		if err := schema.Decode(schema.BlogFields, raw, &blog); err != nil {
			return TranslatedFields{}, fmt.Errorf("%w: %v", ErrFieldsInvalid, err)
		}
		return TranslatedFields{Type: t, Title: blog.Title, Excerpt: blog.Excerpt, Content: blog.Content}, nil
	}

	var post postFieldsJSON
	if err := schema.Decode(schema.PostFields, raw, &post); err != nil {
		return TranslatedFields{}, fmt.Errorf("%w: %v", ErrFieldsInvalid, err)
	}
	return TranslatedFields{Type: t, Title: post.Title, Description: post.Description}, nil
}

func schemaFor(t Type) string {
	if t == TypeBlog {
		return schema.BlogFields
	}
	return schema.PostFields
}
