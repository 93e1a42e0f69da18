package auth

import (
	"fmt"
	"strings"
)

// weakPasswordList contains common passwords that are rejected outright or as a prefix.
var weakPasswordList = []string{
	"admin",
	"password",
	"123456",
	"secret",
	"qwerty",
	"letmein",
	"welcome",
	"viewer",
	"test",
	"default",
	"root",
	"changeme",
}

const (
	minPasswordLength = 12
	minSecretLength   = 32
)

// ValidatePassword rejects empty, short and common passwords. name is the
// environment variable the password came from and appears in the error.
func ValidatePassword(name, pass string) error {
	if pass == "" {
		return fmt.Errorf("credentials validation failed: %s must not be empty", name)
	}
	if len(pass) < minPasswordLength {
		return fmt.Errorf("credentials validation failed: %s must be at least %d characters (current length: %d)",
			name, minPasswordLength, len(pass))
	}
	if isRepeatedChar(pass) {
		return fmt.Errorf("credentials validation failed: %s must not repeat a single character", name)
	}
	lowerPass := strings.ToLower(pass)
	for _, weak := range weakPasswordList {
		if lowerPass == weak {
			return fmt.Errorf("credentials validation failed: %s must not be a weak password", name)
		}
		// catches "admin1234567" but not long passphrases that merely start with a word
		if strings.HasPrefix(lowerPass, weak) && len(pass) < minPasswordLength+5 {
			return fmt.Errorf("credentials validation failed: %s must not be based on common weak passwords", name)
		}
	}
	return nil
}

// ValidateSecret checks the HMAC signing secret.
func ValidateSecret(secret string) error {
	if len(secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters (current length: %d)", minSecretLength, len(secret))
	}
	if isRepeatedChar(secret) {
		return fmt.Errorf("JWT_SECRET must not repeat a single character")
	}
	return nil
}

func isRepeatedChar(s string) bool {
	if s == "" {
		return false
	}
	return strings.Count(s, s[:1]) == len(s)
}
