package application

import "math/rand/v2"

const (
	// TokenAlphabet is the set of characters identifiers are drawn from.
	TokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// TokenLength is the fixed identifier length. Four base36 characters give
	// roughly 1.68M combinations, accepted as good-enough collision
	// resistance at the traffic this service targets.
	TokenLength = 4
)

// NewToken returns a short shareable image identifier. Uniqueness is
// probabilistic; callers that care probe for collisions themselves.
func NewToken() string {
	b := make([]byte, TokenLength)
	for i := range b {
		b[i] = TokenAlphabet[rand.IntN(len(TokenAlphabet))]
	}
	return string(b)
}

// ValidToken reports whether s has the shape of a generated identifier.
func ValidToken(s string) bool {
	if len(s) != TokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
