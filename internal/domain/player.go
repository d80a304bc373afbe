package domain

import (
	"errors"
	"strings"
)

const MaxPlayerNameLen = 36

var (
	ErrNameEmpty   = errors.New("player name empty")
	ErrNameTooLong = errors.New("player name too long")
)

// NormalizePlayerName trims the name and checks it against the limits.
// Adapters call this before anything reaches the store.
func NormalizePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return "", ErrNameEmpty
	}
	if len(name) > MaxPlayerNameLen {
		return "", ErrNameTooLong
	}
	return name, nil
}
