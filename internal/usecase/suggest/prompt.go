package suggest

import (
	"strings"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

// promptInstructions is the fixed instruction block sent with every query.
// The output shape, the prohibition on extra text, and the no-match fallback
// literal are all spelled out so the normalizer has a fighting chance.
const promptInstructions = `CRITICAL INSTRUCTIONS:
1. Your response must be a valid JSON object with the following structure:
   {
     "suggestions": [
       {
         "title": "Page Title",
         "path": "/path/to/page",
         "description": "Page description",
         "service": "lookup service name, only when the route lists one",
         "param": "the name or email extracted from the query, only with service"
       }
     ],
     "explanation": "A short, friendly, professional explanation of why you suggested these results."
   }
2. The description in your response must ONLY be the text from the Description field
3. NEVER include Tags in your response
4. Use Tags for matching - if the query contains keywords that match ANY of the page's tags, consider it a relevant match
5. When a route lists a Service and the query names a person, organization, or email, copy the Service value into "service" and put the extracted name or email into "param"; otherwise omit both fields
6. DO NOT include any explanations or thinking process outside the 'explanation' property
7. DO NOT use any markup or special formatting
8. If no matches are found, return: {"suggestions": [], "explanation": "No relevant pages were found for your request."}
9. IMPORTANT: Ensure your response is a complete, valid JSON object with matching opening and closing braces
10. CRITICAL: Only suggest pages that are DIRECTLY relevant to the user's query. Do not suggest unrelated pages.`

// Compile renders the retrieved matches plus the query into the backend
// instruction payload. Pure and deterministic: identical inputs always
// produce identical prompts.
func Compile(query string, matches []domain.RetrievedMatch) string {
	var b strings.Builder

	b.WriteString("You are a smart helpbox assistant. Your role is to provide quick, precise navigation suggestions.\n\n")
	b.WriteString("User Query: \"")
	b.WriteString(query)
	b.WriteString("\"\n\nAvailable Routes (ONLY use the Description field in your response, ignore Tags):\n")

	for _, m := range matches {
		writeRouteBlock(&b, m.Document.Route)
	}

	b.WriteString("\n")
	b.WriteString(promptInstructions)
	b.WriteString("\n")
	return b.String()
}

func writeRouteBlock(b *strings.Builder, r domain.RouteEntry) {
	b.WriteString("- Title: ")
	b.WriteString(r.Title)
	b.WriteString("\n  Path: ")
	b.WriteString(r.URL)
	b.WriteString("\n  Description: ")
	b.WriteString(r.Description)
	b.WriteString("\n")
	if len(r.Tags) > 0 {
		b.WriteString("  Tags for matching: ")
		b.WriteString(strings.Join(r.Tags, ", "))
		b.WriteString("\n")
	}
	if r.Service != "" {
		b.WriteString("  Service: ")
		b.WriteString(r.Service)
		b.WriteString("\n")
	}
	if len(r.HasAccess) > 0 {
		b.WriteString("  Requires access: ")
		b.WriteString(strings.Join(r.HasAccess, ", "))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
