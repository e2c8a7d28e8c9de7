package domain

// Suggestion is one directly-actionable navigation link drafted by the
// completion backend. Service and Param are set only when the route needs an
// identifier resolved before the path is usable.
type Suggestion struct {
	Title       string `json:"title"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Service     string `json:"service,omitempty"`
	Param       string `json:"param,omitempty"`
}

// SuggestionResponse is the terminal artifact returned to the caller.
// It always has exactly these two fields, even on degraded outcomes.
type SuggestionResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	Explanation string       `json:"explanation"`
}

// NoMatchExplanation is the canonical explanation for an empty result.
const NoMatchExplanation = "No relevant pages were found for your request."

// EmptyResponse returns the canonical empty result with the given
// explanation. The suggestions slice is non-nil so it serializes as [].
func EmptyResponse(explanation string) SuggestionResponse {
	return SuggestionResponse{Suggestions: []Suggestion{}, Explanation: explanation}
}
