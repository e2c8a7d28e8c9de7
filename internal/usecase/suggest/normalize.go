package suggest

import (
	"encoding/json"
	"strings"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

// Failure explanations for degraded outcomes. The caller-facing contract is
// "always a valid SuggestionResponse shape": generation-quality failures
// become one of these, never an error.
const (
	explainNoResponse      = "No response from the AI model."
	explainParseFailure    = "Failed to parse the AI model response."
	explainInvalidResponse = "Invalid response format from the AI model."
)

// Normalize repairs and parses the backend's raw text into the strict
// suggestion schema. Repair strategies run in a fixed order: strip markdown
// code fences, balance braces, parse; on failure, unescape literal escape
// sequences and parse again. Anything still unparseable, or a parsed object
// missing the required top-level keys, degrades to the canonical empty
// response.
func Normalize(rawText string) domain.SuggestionResponse {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return domain.EmptyResponse(explainNoResponse)
	}

	text = stripCodeFences(text)
	text = balanceBraces(text)

	if resp, ok := parseStrict(text); ok {
		return resp
	}

	// Second attempt: the backend sometimes emits literal escape sequences
	// inside an otherwise valid-looking object.
	if resp, ok := parseStrict(unescape(collapseWhitespace(text))); ok {
		return resp
	}

	return domain.EmptyResponse(explainParseFailure)
}

// parseStrict parses text into the suggestion schema, requiring both
// top-level keys. A syntactically valid object missing either key is a
// schema violation, not a partial success.
func parseStrict(text string) (domain.SuggestionResponse, bool) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &keys); err != nil {
		return domain.SuggestionResponse{}, false
	}
	if _, ok := keys["suggestions"]; !ok {
		return domain.EmptyResponse(explainInvalidResponse), true
	}
	if _, ok := keys["explanation"]; !ok {
		return domain.EmptyResponse(explainInvalidResponse), true
	}

	var resp domain.SuggestionResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return domain.SuggestionResponse{}, false
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []domain.Suggestion{}
	}
	return resp, true
}

// stripCodeFences removes surrounding markdown code-fence markers, with or
// without a language tag.
func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// balanceBraces repairs truncated generation by appending missing closing
// braces, or trimming surplus ones from the end. Best-effort: it makes the
// text parseable, not semantically correct.
func balanceBraces(text string) string {
	diff := strings.Count(text, "{") - strings.Count(text, "}")
	switch {
	case diff > 0:
		return text + strings.Repeat("}", diff)
	case diff < 0:
		trimmed := text
		for i := 0; i < -diff && strings.HasSuffix(strings.TrimSpace(trimmed), "}"); i++ {
			trimmed = strings.TrimSpace(trimmed)
			trimmed = trimmed[:len(trimmed)-1]
		}
		return trimmed
	default:
		return text
	}
}

// collapseWhitespace normalizes all whitespace runs to single spaces.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// literalEscapes maps escape sequences the backend emitted as plain text
// back to the characters they stand for.
var literalEscapes = strings.NewReplacer(`\n`, " ", `\t`, " ", `\r`, " ", `\"`, `"`)

// unescape decodes literal escape sequences the backend emitted as text
// rather than as JSON escapes.
func unescape(text string) string {
	return literalEscapes.Replace(text)
}
