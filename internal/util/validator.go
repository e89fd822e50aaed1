package util

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLen = 64
	MaxTitleLen    = 255
)

// NormalizeUsername trims surrounding whitespace.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// ValidateUsername checks a normalized username.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return fmt.Errorf("username too long, max %d characters", MaxUsernameLen)
	}
	return nil
}

// ValidatePassword checks presence and the bcrypt length limit.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password too long, max %d bytes", MaxPasswordBytes)
	}
	return nil
}

// ValidateTitle checks a trimmed task title.
func ValidateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("title too long, max %d characters", MaxTitleLen)
	}
	return nil
}
