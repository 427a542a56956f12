package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

func TestDetectIntents_SingleIntent(t *testing.T) {
	llm := intentLLM(false)
	detector := NewIntentDetector(llm, &mockPromptStore{}, nil)

	got := detector.DetectIntents(t.Context(), "list all pets")

	assert.Equal(t, []string{"list all pets"}, got)
	require.Len(t, llm.prompts, 1)
	assert.Equal(t, "classify: list all pets", llm.prompts[0])
	assert.Equal(t, classifyOptions, llm.options[0])
}

func TestDetectIntents_MultiIntent(t *testing.T) {
	llm := intentLLM(true, "create a user", "upload an avatar")
	detector := NewIntentDetector(llm, &mockPromptStore{}, nil)

	got := detector.DetectIntents(t.Context(), "create a user and upload an avatar")

	assert.Equal(t, []string{"create a user", "upload an avatar"}, got)
	require.Len(t, llm.prompts, 2)
	assert.Equal(t, "decompose: create a user and upload an avatar", llm.prompts[1])
	assert.Equal(t, decomposeOptions, llm.options[1])
}

func TestDetectIntents_ClassifierAnswerIsCaseInsensitive(t *testing.T) {
	llm := &mockLLMService{completeFn: func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "classify") {
			return "  TRUE.\n", nil
		}
		return "- a\n- b", nil
	}}
	detector := NewIntentDetector(llm, &mockPromptStore{}, nil)

	assert.Equal(t, []string{"a", "b"}, detector.DetectIntents(t.Context(), "a and b"))
}

func TestDetectIntents_FallsBackToQuery(t *testing.T) {
	tests := []struct {
		name    string
		llm     *mockLLMService
		prompts *mockPromptStore
	}{
		{
			name:    "classifier error",
			llm:     &mockLLMService{completeFn: func(string) (string, error) { return "", errBackend }},
			prompts: &mockPromptStore{},
		},
		{
			name: "decomposer error",
			llm: &mockLLMService{completeFn: func(p string) (string, error) {
				if strings.HasPrefix(p, "classify") {
					return "true", nil
				}
				return "", errBackend
			}},
			prompts: &mockPromptStore{},
		},
		{
			name:    "no parseable lines",
			llm:     &mockLLMService{completeFn: func(string) (string, error) { return "true\nsome prose", nil }},
			prompts: &mockPromptStore{},
		},
		{
			name:    "prompt missing",
			llm:     intentLLM(true, "a", "b"),
			prompts: &mockPromptStore{loadErr: domain.ErrNotFound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := NewIntentDetector(tt.llm, tt.prompts, nil)
			assert.Equal(t, []string{"q"}, detector.DetectIntents(t.Context(), "q"))
		})
	}
}

func TestDetectIntents_NoLLM(t *testing.T) {
	detector := NewIntentDetector(nil, &mockPromptStore{}, nil)
	assert.Equal(t, []string{"q"}, detector.DetectIntents(t.Context(), "q"))
}

func TestParseIntents(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"- a\n- b", []string{"a", "b"}},
		{"Here you go:\n  - first  \nnot a bullet\n-missing space\n- \n- last", []string{"first", "last"}},
		{"", nil},
		{"* star", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseIntents(tt.in), "input %q", tt.in)
	}
}
