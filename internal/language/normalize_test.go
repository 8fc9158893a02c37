package language

import "testing"

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	if got := NormalizeTag(" EN_us "); got != "en-us" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("zh-Hans"); got != "zh-hans" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("en--US"); got != "en-us" {
		t.Fatalf("unexpected collapsed tag: %q", got)
	}
	if got := NormalizeTag("en_123"); got != "" {
		t.Fatalf("expected invalid tag to normalize to empty string, got %q", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	if got := NormalizeCode(" EN-us "); got != "en" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode("zh"); got != "zh" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode(" "); got != "" {
		t.Fatalf("expected empty code for blank input, got %q", got)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	if got := Resolve("", "de-CH"); got != German {
		t.Fatalf("expected locale fallback to de, got %q", got)
	}
	if got := Resolve("FR"); got != French {
		t.Fatalf("expected fr, got %q", got)
	}
	if got := Resolve("zh", "ja-JP"); got != Default {
		t.Fatalf("expected default for unsupported languages, got %q", got)
	}
}

func TestOthers(t *testing.T) {
	t.Parallel()

	got := Others("de")
	if len(got) != 3 || got[0] != English || got[1] != French || got[2] != Italian {
		t.Fatalf("unexpected other languages: %v", got)
	}
	if Label("it") != "Italian" || Label("xx") != "XX" {
		t.Fatalf("unexpected labels: %q %q", Label("it"), Label("xx"))
	}
}
