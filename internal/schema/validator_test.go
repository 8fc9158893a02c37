package schema

import "testing"

func TestValidate_PostFields(t *testing.T) {
	t.Parallel()

	if _, err := Validate(PostFields, []byte(`{"title":"Entwickler","description":"Backend"}`)); err != nil {
		t.Fatalf("expected valid post fields, got %v", err)
	}
	if _, err := Validate(PostFields, []byte(`{"title":"Entwickler"}`)); err == nil {
		t.Fatalf("expected missing description to fail")
	}
	if _, err := Validate(PostFields, []byte(`{"title":"A","description":"B","excerpt":"C"}`)); err == nil {
		t.Fatalf("expected unknown field to fail")
	}
}

func TestValidate_BlogFields(t *testing.T) {
	t.Parallel()

	if _, err := Validate(BlogFields, []byte(`{"title":"Hallo","excerpt":"Kurz","content":"<p>Lang</p>"}`)); err != nil {
		t.Fatalf("expected valid blog fields, got %v", err)
	}
	if _, err := Validate(BlogFields, []byte(`{"title":""}`)); err == nil {
		t.Fatalf("expected empty title to fail")
	}
}

func TestValidate_RejectsTrailingContent(t *testing.T) {
	t.Parallel()

	if _, err := Validate(PostFields, []byte(`{"title":"A","description":"B"} {}`)); err == nil {
		t.Fatalf("expected trailing content to fail")
	}
}

func TestDecode_MultiLanguage(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"en":{"title":"Developer","description":"Build things"},
		"de":{"title":"Entwickler","description":"Dinge bauen"},
		"fr":{"title":"Développeur","description":"Construire"},
		"it":{"title":"Sviluppatore","description":"Costruire"}
	}`)

	var out map[string]struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := Decode(MultiLanguage, payload, &out); err != nil {
		t.Fatalf("decode multi-language payload: %v", err)
	}
	if out["fr"].Title != "Développeur" {
		t.Fatalf("unexpected fr title: %q", out["fr"].Title)
	}

	if err := Decode(MultiLanguage, []byte(`{"en":{"title":"x","description":"y"}}`), &out); err == nil {
		t.Fatalf("expected missing languages to fail")
	}
}

func TestSource(t *testing.T) {
	t.Parallel()

	doc, err := Source(MultiLanguage)
	if err != nil {
		t.Fatalf("load schema source: %v", err)
	}
	if doc["type"] != "object" {
		t.Fatalf("unexpected schema type: %v", doc["type"])
	}
}
