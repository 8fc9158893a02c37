package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewBatchAPIDisabledWithoutCredential(t *testing.T) {
	t.Parallel()

	if NewBatchAPI("https://translate.example", "", nil) != nil {
		t.Fatalf("expected nil client without api key")
	}
	if NewBatchAPI("", "key", nil) != nil {
		t.Fatalf("expected nil client without endpoint")
	}
}

func TestBatchAPITranslate(t *testing.T) {
	t.Parallel()

	var got batchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("authorization header = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		out := make([]string, len(got.Texts))
		for i, text := range got.Texts {
			out[i] = got.TargetLanguage + ":" + text
		}
		_ = json.NewEncoder(w).Encode(batchResponse{Translations: out})
	}))
	defer server.Close()

	api := NewBatchAPI(server.URL, "secret", server.Client())
	translations, err := api.TranslateBatch(context.Background(), []string{"a", "b"}, "de", "en")
	if err != nil {
		t.Fatalf("TranslateBatch() error = %v", err)
	}
	if len(translations) != 2 || translations[0] != "de:a" || translations[1] != "de:b" {
		t.Fatalf("translations = %v", translations)
	}
	if got.SourceLanguage != "en" || got.TargetLanguage != "de" {
		t.Fatalf("request languages = %s -> %s", got.SourceLanguage, got.TargetLanguage)
	}
}

func TestBatchAPIRateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate_limited","message":"too many requests"}`))
	}))
	defer server.Close()

	_, err := NewBatchAPI(server.URL, "secret", server.Client()).TranslateBatch(context.Background(), []string{"a"}, "fr", "")
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("TranslateBatch() error = %v, want RateLimitError", err)
	}
	if rateErr.RetryAfter != 7*time.Second || rateErr.Message != "too many requests" {
		t.Fatalf("rate limit error = %+v", rateErr)
	}
}

func TestBatchAPIRejectsShortResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"translations":["only one"]}`))
	}))
	defer server.Close()

	_, err := NewBatchAPI(server.URL, "secret", server.Client()).TranslateBatch(context.Background(), []string{"a", "b"}, "it", "")
	if err == nil {
		t.Fatalf("expected error for mismatched translation count")
	}
}
