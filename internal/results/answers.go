package results

import "strings"

// CountCorrectAnswers counts how many comma-separated tokens in userResponse
// also appear in correctPattern. Tokens are trimmed. Matching is by
// membership, so a repeated user token counts every time it matches.
func CountCorrectAnswers(userResponse, correctPattern string) int {
	correct := make(map[string]struct{})
	for _, tok := range splitTokens(correctPattern) {
		correct[tok] = struct{}{}
	}

	count := 0
	for _, tok := range splitTokens(userResponse) {
		if _, ok := correct[tok]; ok {
			count++
		}
	}
	return count
}

func splitTokens(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
