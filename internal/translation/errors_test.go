package translation

import (
	"testing"
	"time"
)

func TestParseRetryHint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		message string
		want    time.Duration
		ok      bool
	}{
		{message: "Rate limit reached. Please retry after 20s.", want: 20 * time.Second, ok: true},
		{message: "quota exceeded, retry in 1.5 s", want: 1500 * time.Millisecond, ok: true},
		{message: "RETRY AFTER 7 seconds", want: 7 * time.Second, ok: true},
		{message: "too many requests", ok: false},
		{message: "retry after 0s", ok: false},
	}
	for _, tc := range cases {
		got, ok := parseRetryHint(tc.message)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseRetryHint(%q) = %v, %v; want %v, %v", tc.message, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNewRateLimitErrorPrefersHeader(t *testing.T) {
	t.Parallel()

	err := newRateLimitError("batch", "please retry after 40s", "5")
	if err.RetryAfter != 5*time.Second {
		t.Fatalf("RetryAfter = %v, want 5s from header", err.RetryAfter)
	}

	err = newRateLimitError("batch", "please retry after 40s", "")
	if err.RetryAfter != 40*time.Second {
		t.Fatalf("RetryAfter = %v, want 40s from message", err.RetryAfter)
	}

	err = newRateLimitError("batch", "slow down", "Wed, 21 Oct 2015 07:28:00 GMT")
	if err.RetryAfter != 0 {
		t.Fatalf("RetryAfter = %v, want 0 without a usable hint", err.RetryAfter)
	}
}
