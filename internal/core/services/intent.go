package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

// Generation settings for the two intent prompts.
var (
	classifyOptions  = driven.CompletionOptions{MaxTokens: 10, Temperature: 0.1}
	decomposeOptions = driven.CompletionOptions{MaxTokens: 200, Temperature: 0.3}
)

const intentPrefix = "- "

// IntentDetector splits a question into atomic intents with two LLM calls:
// one to classify the question as compound, one to decompose it.
// It never fails; any error degrades to the question itself.
type IntentDetector struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	log     *logger.Logger
}

// NewIntentDetector creates an intent detector.
func NewIntentDetector(llm driven.LLMService, prompts driven.PromptStore, log *logger.Logger) *IntentDetector {
	return &IntentDetector{llm: llm, prompts: prompts, log: log}
}

// DetectIntents returns the intents of query, never empty.
func (d *IntentDetector) DetectIntents(ctx context.Context, query string) []string {
	multi, err := d.isMultiIntent(ctx, query)
	if err != nil {
		d.log.Warn("Intent classification failed, treating query as a single intent: %v", err)
		return []string{query}
	}
	if !multi {
		d.log.Debug("Single intent: %q", query)
		return []string{query}
	}

	intents, err := d.decompose(ctx, query)
	if err != nil {
		d.log.Warn("Intent decomposition failed, treating query as a single intent: %v", err)
		return []string{query}
	}
	if len(intents) == 0 {
		d.log.Debug("Decomposition returned no intents, using original query")
		return []string{query}
	}

	d.log.Info("Detected %d intents", len(intents))
	return intents
}

func (d *IntentDetector) isMultiIntent(ctx context.Context, query string) (bool, error) {
	answer, err := d.complete(ctx, driven.PromptIntentClassify, query, classifyOptions)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "true"), nil
}

func (d *IntentDetector) decompose(ctx context.Context, query string) ([]string, error) {
	answer, err := d.complete(ctx, driven.PromptIntentDecompose, query, decomposeOptions)
	if err != nil {
		return nil, err
	}
	return ParseIntents(answer), nil
}

func (d *IntentDetector) complete(
	ctx context.Context, promptName, query string, opts driven.CompletionOptions,
) (string, error) {
	if d.llm == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIntentDetection, domain.ErrLLMUnavailable)
	}
	template, err := d.prompts.Load(promptName)
	if err != nil {
		return "", fmt.Errorf("%w: load prompt: %w", domain.ErrIntentDetection, err)
	}
	answer, err := d.llm.Complete(ctx, fmt.Sprintf(template, query), opts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIntentDetection, err)
	}
	return answer, nil
}

// ParseIntents keeps the lines of s that start with "- ", without the prefix.
func ParseIntents(s string) []string {
	var intents []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, intentPrefix) {
			continue
		}
		if intent := strings.TrimSpace(line[len(intentPrefix):]); intent != "" {
			intents = append(intents, intent)
		}
	}
	return intents
}
