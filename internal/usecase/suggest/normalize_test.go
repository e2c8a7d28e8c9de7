package suggest

import (
	"testing"
)

const validResponse = `{
	"suggestions": [
		{"title": "View Calendar", "path": "/calendar", "description": "Shows events"}
	],
	"explanation": "Calendar pages match your query."
}`

func TestNormalizeValid(t *testing.T) {
	resp := Normalize(validResponse)
	if len(resp.Suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(resp.Suggestions))
	}
	if resp.Suggestions[0].Path != "/calendar" {
		t.Errorf("path = %q", resp.Suggestions[0].Path)
	}
	if resp.Explanation != "Calendar pages match your query." {
		t.Errorf("explanation = %q", resp.Explanation)
	}
}

func TestNormalizeStripsCodeFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain fence", "```\n" + validResponse + "\n```"},
		{"json fence", "```json\n" + validResponse + "\n```"},
		{"fence no newline", "```json" + validResponse + "```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Normalize(tt.raw)
			if len(resp.Suggestions) != 1 {
				t.Fatalf("suggestions = %d, want 1 (explanation: %s)", len(resp.Suggestions), resp.Explanation)
			}
		})
	}
}

func TestNormalizeAppendsMissingBraces(t *testing.T) {
	// Truncated generation: top-level closing brace lost.
	truncated := `{"suggestions": [{"title": "t", "path": "/p", "description": "d"}], "explanation": "e"`

	resp := Normalize(truncated)
	if resp.Explanation != "e" {
		t.Fatalf("explanation = %q, want e", resp.Explanation)
	}
	if len(resp.Suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(resp.Suggestions))
	}
}

func TestNormalizeTrimsSurplusBraces(t *testing.T) {
	resp := Normalize(validResponse + "}}")
	if len(resp.Suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1 (explanation: %s)", len(resp.Suggestions), resp.Explanation)
	}
}

func TestNormalizeUnescapesLiteralEscapes(t *testing.T) {
	raw := `{\n \"suggestions\": [],\n \"explanation\": \"nothing found\"\n}`
	resp := Normalize(raw)
	if resp.Explanation != "nothing found" {
		t.Fatalf("explanation = %q, want unescaped parse", resp.Explanation)
	}
}

func TestNormalizeSchemaViolation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing suggestions", `{"explanation": "e"}`},
		{"missing explanation", `{"suggestions": []}`},
		{"wrong object entirely", `{"answer": 42}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Normalize(tt.raw)
			if len(resp.Suggestions) != 0 {
				t.Errorf("suggestions = %d, want 0", len(resp.Suggestions))
			}
			if resp.Explanation != explainInvalidResponse {
				t.Errorf("explanation = %q", resp.Explanation)
			}
		})
	}
}

func TestNormalizeUnsalvageable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", explainNoResponse},
		{"whitespace only", "   \n\t ", explainNoResponse},
		{"prose", "I think you want the calendar page!", explainParseFailure},
		{"broken beyond brace repair", `{"suggestions": [{{{]]`, explainParseFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Normalize(tt.raw)
			if resp.Suggestions == nil || len(resp.Suggestions) != 0 {
				t.Errorf("suggestions = %v, want empty non-nil", resp.Suggestions)
			}
			if resp.Explanation != tt.want {
				t.Errorf("explanation = %q, want %q", resp.Explanation, tt.want)
			}
		})
	}
}

func TestNormalizeNullSuggestions(t *testing.T) {
	resp := Normalize(`{"suggestions": null, "explanation": "e"}`)
	if resp.Suggestions == nil {
		t.Fatal("suggestions must be non-nil so the response serializes as []")
	}
	if len(resp.Suggestions) != 0 {
		t.Fatalf("suggestions = %d, want 0", len(resp.Suggestions))
	}
}

func TestBalanceBraces(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a": {"b": 1`, `{"a": {"b": 1}}`},
		{`{"a": 1}}`, `{"a": 1}`},
		{`{"a": 1}`, `{"a": 1}`},
	}
	for _, tt := range tests {
		if got := balanceBraces(tt.in); got != tt.want {
			t.Errorf("balanceBraces(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
