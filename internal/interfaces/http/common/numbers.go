package common

import (
	"strconv"
	"strings"
)

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// ParseBool accepts true/1/yes/on (case-insensitive). An empty value yields fallback,
// anything else is false.
func ParseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return fallback
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
