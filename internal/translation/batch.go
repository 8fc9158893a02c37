package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BatchAPI is the client for the dedicated batch translation endpoint.
type BatchAPI struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewBatchAPI returns nil when either the endpoint or the credential is missing,
// which leaves the generative backend as the only path.
func NewBatchAPI(endpoint, apiKey string, client *http.Client) *BatchAPI {
	endpoint = strings.TrimSpace(endpoint)
	apiKey = strings.TrimSpace(apiKey)
	if endpoint == "" || apiKey == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &BatchAPI{endpoint: endpoint, apiKey: apiKey, client: client}
}

func (b *BatchAPI) Name() string {
	return "batch"
}

type batchRequest struct {
	Texts          []string `json:"texts"`
	TargetLanguage string   `json:"targetLanguage"`
	SourceLanguage string   `json:"sourceLanguage,omitempty"`
}

type batchResponse struct {
	Translations []string `json:"translations"`
}

type batchErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b *BatchAPI) TranslateBatch(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	body, err := json.Marshal(batchRequest{
		Texts:          texts,
		TargetLanguage: targetLang,
		SourceLanguage: sourceLang,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal batch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send batch request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read batch response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, newRateLimitError(b.Name(), errorMessage(respBody), resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("batch endpoint status %d: %s", resp.StatusCode, errorMessage(respBody))
	}

	var parsed batchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}
	if len(parsed.Translations) != len(texts) {
		return nil, fmt.Errorf("batch response has %d translations for %d texts", len(parsed.Translations), len(texts))
	}
	return parsed.Translations, nil
}

func errorMessage(body []byte) string {
	var payload batchErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(body))
}
