package biz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("Data is encrypted with AES-256.", "Is data encrypted at rest?")

	want := "Answer the following security question using the provided context. " +
		"Your answer should be concise and based on the context.\n\n" +
		"Context: Data is encrypted with AES-256.\n\n" +
		"Security Question: Is data encrypted at rest?\n\n" +
		"Answer:"
	assert.Equal(t, want, got)
}

func TestBuildPromptDeterministic(t *testing.T) {
	assert.Equal(t, BuildPrompt("c", "q"), BuildPrompt("c", "q"))
}

func TestBuildPromptKeepsBracesLiteral(t *testing.T) {
	tests := []struct {
		name     string
		context  string
		question string
	}{
		{"json in context", `config: {"tls": true}`, "Is TLS on?"},
		{"placeholder in context", "see {question} and {context}", "q"},
		{"placeholder in question", "ctx", "what is {context}?"},
		{"go template syntax", "{{ .Secret }}", "{{end}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPrompt(tt.context, tt.question)
			assert.Contains(t, got, "Context: "+tt.context+"\n\n")
			assert.Contains(t, got, "Security Question: "+tt.question+"\n\n")
			assert.True(t, strings.HasSuffix(got, "Answer:"))
		})
	}
}
