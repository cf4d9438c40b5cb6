package utils

import (
	"errors"
	"strings"
)

// NormalizePhone normalizes a Russian phone number to E.164 (+7XXXXXXXXXX).
// Accepted input forms:
//
//	89060943936  -> +79060943936
//	79060943936  -> +79060943936
//	+79060943936 -> +79060943936
//	9060943936   -> +79060943936
func NormalizePhone(phone string) (string, error) {
	var digits strings.Builder
	for _, c := range strings.TrimSpace(phone) {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}

	cleaned := digits.String()
	switch {
	case len(cleaned) == 11 && cleaned[0] == '8':
		cleaned = "7" + cleaned[1:]
	case len(cleaned) == 10 && cleaned[0] == '9':
		cleaned = "7" + cleaned
	}

	if len(cleaned) != 11 || cleaned[0] != '7' {
		return "", errors.New("invalid phone number format")
	}

	return "+" + cleaned, nil
}
