package rag

import "strings"

// complexityKeywords marks questions that warrant more context and a larger
// generation budget.
var complexityKeywords = []string{"compare", "analyze", "explain", "detailed", "comprehensive"}

// isComplex classifies a question as complex when it is long or asks for
// analysis rather than a lookup.
func isComplex(question string) bool {
	if len(strings.Fields(question)) > 10 {
		return true
	}
	lower := strings.ToLower(question)
	for _, keyword := range complexityKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
