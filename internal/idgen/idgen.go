// Package idgen produces short, human-typable room codes.
package idgen

import "crypto/rand"

const (
	// Uppercase only so codes survive being read out loud and typed back.
	codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	CodeLen = 6
)

// NewCode samples CodeLen characters from codeChars. It makes no uniqueness
// guarantee on its own; the store retries on collision.
func NewCode() (string, error) {
	b := make([]byte, CodeLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeChars[b[i]%byte(len(codeChars))]
	}
	return string(b), nil
}
