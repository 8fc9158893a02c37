package translation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrProviderUnavailable means every configured backend failed for a call.
	ErrProviderUnavailable = errors.New("translation provider unavailable")
	ErrNoBackend           = errors.New("no translation backend configured")
	// ErrStructuredResponse marks a generative reply that is not valid schema JSON.
	ErrStructuredResponse = errors.New("structured translation response invalid")
)

var retryHintPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

// RateLimitError is returned by backends when the upstream throttles us.
// RetryAfter is zero when the upstream gave no usable hint.
type RateLimitError struct {
	Backend    string
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limited (retry after %s): %s", e.Backend, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("%s rate limited: %s", e.Backend, e.Message)
}

// newRateLimitError prefers a numeric Retry-After header, then a
// "retry after N s" hint in the message.
func newRateLimitError(backend, message, retryAfterHeader string) *RateLimitError {
	err := &RateLimitError{Backend: backend, Message: strings.TrimSpace(message)}
	if secs, convErr := strconv.ParseFloat(strings.TrimSpace(retryAfterHeader), 64); convErr == nil && secs > 0 {
		err.RetryAfter = time.Duration(secs * float64(time.Second))
		return err
	}
	if hint, ok := parseRetryHint(message); ok {
		err.RetryAfter = hint
	}
	return err
}

func parseRetryHint(message string) (time.Duration, bool) {
	match := retryHintPattern.FindStringSubmatch(message)
	if len(match) != 2 {
		return 0, false
	}
	secs, err := strconv.ParseFloat(match[1], 64)
	if err != nil || secs <= 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}
