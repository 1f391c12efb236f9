package auth

import "strings"

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 8

// SpecialChars is the fixed set of special characters a password must draw from.
const SpecialChars = "@$!%*#?&"

// PasswordValid reports whether password has at least PasswordMinLength
// characters, one uppercase letter, one lowercase letter, one digit and one
// character from SpecialChars. Any other character makes it invalid.
func PasswordValid(password string) bool {
	if len(password) < PasswordMinLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(SpecialChars, c):
			special = true
		default:
			return false
		}
	}
	return upper && lower && digit && special
}
