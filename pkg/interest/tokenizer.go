package interest

import (
	"fmt"
	"strings"
)

// Tokenize splits a raw region value such as "[12, 0]" into its tokens.
// Every '[' and ']' is removed, the rest is split on commas and each token
// is trimmed. A blank value has no tokens.
func Tokenize(raw string) []string {
	stripped := strings.Map(func(r rune) rune {
		if r == '[' || r == ']' {
			return -1
		}
		return r
	}, raw)

	if strings.TrimSpace(stripped) == "" {
		return nil
	}

	tokens := strings.Split(stripped, ",")
	for i, tok := range tokens {
		tokens[i] = strings.TrimSpace(tok)
	}
	return tokens
}

// tokenizeExpect tokenizes raw and checks there is a token for every keyword.
func tokenizeExpect(region, raw string, want int) ([]string, error) {
	tokens := Tokenize(raw)
	if len(tokens) < want {
		return nil, &MalformedResponseError{
			Region:   region,
			Position: -1,
			Token:    raw,
			Reason:   fmt.Sprintf("expected at least %d tokens, got %d", want, len(tokens)),
		}
	}
	return tokens, nil
}
