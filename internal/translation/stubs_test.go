package translation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// stubBatch translates by prefixing the target language and appending
// suffix, unless err is set.
type stubBatch struct {
	mu     sync.Mutex
	calls  [][]string
	err    error
	suffix string
	gate   chan struct{}
	called chan struct{}
}

func (s *stubBatch) Name() string { return "stub-batch" }

func (s *stubBatch) TranslateBatch(ctx context.Context, texts []string, target, _ string) ([]string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, append([]string(nil), texts...))
	s.mu.Unlock()
	if s.called != nil {
		s.called <- struct{}{}
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = "[" + target + "] " + text + s.suffix
	}
	return out, nil
}

func (s *stubBatch) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// stubGenerator answers from a queue of replies, then from reply.
type stubGenerator struct {
	mu      sync.Mutex
	prompts []Prompt
	queue   []string
	reply   func(Prompt) (string, error)
}

func (s *stubGenerator) Name() string { return "stub-generator" }

func (s *stubGenerator) Complete(_ context.Context, prompt Prompt) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	if len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		return next, nil
	}
	s.mu.Unlock()
	if s.reply == nil {
		return "", errors.New("no reply configured")
	}
	return s.reply(prompt)
}

func (s *stubGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// echoTranslation returns the last line of a translate prompt tagged "gen".
func echoTranslation(p Prompt) (string, error) {
	lines := strings.Split(p.User, "\n")
	return "gen:" + lines[len(lines)-1], nil
}

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}

func testRetryPolicy(rec *sleepRecorder) RetryPolicy {
	policy := DefaultRetryPolicy()
	policy.Sleep = rec.sleep
	return policy
}

const validStructuredReply = `{
 "en": {"title": "Developer", "description": "Build things"},
 "de": {"title": "Entwickler", "description": "Dinge bauen"},
 "fr": {"title": "Développeur", "description": "Construire des choses"},
 "it": {"title": "Sviluppatore", "description": "Costruire cose"}
}`
