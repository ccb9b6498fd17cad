// Package domain contains entities and their invariants, no transport logic.
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxUserIDLen      = 128
	MaxDisplayNameLen = 64
)

var (
	ErrUserIDEmpty   = errors.New("user id empty")
	ErrUserIDTooLong = errors.New("user id too long")
)

// UserID is asserted by the client and never verified here.
type UserID string

func (u UserID) Validate() error {
	if len(u) == 0 {
		return ErrUserIDEmpty
	}
	if len(u) > MaxUserIDLen {
		return ErrUserIDTooLong
	}
	return nil
}

// ConnectionID identifies one live event-channel connection.
type ConnectionID string

// NormalizeDisplayName trims the label and falls back to the user id.
func NormalizeDisplayName(name string, uid UserID) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return string(uid)
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		name = string([]rune(name)[:MaxDisplayNameLen])
	}
	return name
}
