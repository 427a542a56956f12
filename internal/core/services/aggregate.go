package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// Fixed aggregation texts.
const (
	NoResultsMessage     = "No results found for your query."
	NoAnswerMessage      = "No answer found for this query."
	NoIntentInfoMessage  = "No specific information found."
	partialFailureHeader = "⚠️ Some parts of your query could not be processed:"
	partialFailureFooter = "\nYou can try rephrasing these parts or ask about them separately."
)

// Aggregate merges per-intent results into one answer. A single result is
// returned as-is; several become a numbered action plan in intent order.
func Aggregate(results []domain.IntentResult) string {
	switch len(results) {
	case 0:
		return NoResultsMessage
	case 1:
		if r := results[0].Result; r != nil && r.Answer != "" {
			return r.Answer
		}
		return NoAnswerMessage
	}

	lines := []string{
		"# Action Plan",
		"Based on your query, here are the steps to accomplish your goal:",
		"",
	}
	for i, r := range results {
		answer := NoIntentInfoMessage
		if r.Result != nil && r.Result.Answer != "" {
			answer = r.Result.Answer
		}
		lines = append(lines, fmt.Sprintf("## %d. %s\n\n%s\n", i+1, r.Intent, answer))
	}
	lines = append(lines, "---\nYou can ask follow-up questions about any of these steps for more details.")

	return strings.Join(lines, "\n")
}

// HandlePartialFailures lists the intents that failed. It returns "" when
// there are none, so the caller can show it apart from the answer.
func HandlePartialFailures(_ []domain.IntentResult, failures []domain.IntentFailure) string {
	if len(failures) == 0 {
		return ""
	}

	lines := []string{partialFailureHeader}
	for _, f := range failures {
		msg := "Unknown error"
		if f.Err != nil && f.Err.Error() != "" {
			msg = f.Err.Error()
		}
		lines = append(lines, fmt.Sprintf("- Intent: %s\n  Error: %s", f.Intent, msg))
	}
	lines = append(lines, partialFailureFooter)

	return strings.Join(lines, "\n")
}
