package util

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFileNameLen bounds the upload names echoed in responses and logs.
const MaxFileNameLen = 255

// ErrInvalidFileName is returned for empty or traversal-style names.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators, drops control characters and
// truncates to MaxFileNameLen bytes. Names containing ".." are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	for len(s) > MaxFileNameLen {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s, nil
}
