package biz

import (
	"context"
	"errors"
	"strings"
	"sync"
)

type fakeChat struct {
	mu      sync.Mutex
	answer  string
	err     error
	block   bool
	prompts []string
}

func (f *fakeChat) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeChat) Name() string { return "fake" }

func (f *fakeChat) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeAnswerer echoes the question line of the prompt.
type fakeAnswerer struct {
	failOn string
}

func (f *fakeAnswerer) Generate(_ context.Context, prompt string) (string, error) {
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return "", errors.New("model unavailable")
	}
	i := strings.Index(prompt, "Security Question: ")
	q := strings.TrimSuffix(prompt[i+len("Security Question: "):], "\n\nAnswer:")
	return "answer to " + q, nil
}

type fakeIndex struct {
	docs []string
	err  error
}

func (f *fakeIndex) Query(context.Context, string, int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}
