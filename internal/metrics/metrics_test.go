package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersAndHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.CacheLookup("memory", true)
	m.CacheLookup("memory", true)
	m.CacheLookup("persistent", false)
	m.ProviderCall("batch", "ok")

	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("memory", "hit")); got != 2 {
		t.Fatalf("unexpected memory hit count: %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "wirsuchen_translation_provider_calls_total") {
		t.Fatalf("expected provider counter in exposition output")
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.CacheLookup("memory", false)
	m.BackfillQueueDepth(3)
	m.TranslationWritten("job", "sync")
	if m.Registry() != nil {
		t.Fatalf("expected nil registry")
	}
}
