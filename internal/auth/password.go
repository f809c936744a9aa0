package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PolicyError reports why a password was rejected by the strength policy.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return e.Reason
}

// commonPasswords is a short deny-list of passwords seen constantly in
// breach dumps. Longer lists exist, but anything on this one is enough to
// reject outright.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"iloveyou":    {},
	"letmein1":    {},
	"admin123":    {},
	"welcome1":    {},
}

// ValidatePassword applies the strength policy: minimum length, not
// entirely numeric, not a known-common password, and not too similar to
// the caller-supplied identity attributes (email, names).
func ValidatePassword(password string, similar ...string) error {
	if len(password) < 8 {
		return &PolicyError{Reason: "Password must be at least 8 characters"}
	}
	if len(password) > 128 {
		return &PolicyError{Reason: "Password must be at most 128 characters"}
	}

	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return &PolicyError{Reason: "Password cannot be entirely numeric"}
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return &PolicyError{Reason: "Password is too common"}
	}

	lower := strings.ToLower(password)
	for _, attr := range similar {
		for _, part := range splitAttr(attr) {
			if len(part) < 4 {
				continue
			}
			if strings.Contains(lower, part) || strings.Contains(part, lower) {
				return &PolicyError{Reason: "Password is too similar to your personal information"}
			}
		}
	}

	return nil
}

// splitAttr breaks an identity attribute into comparable fragments: an
// email becomes its local part plus dot/underscore-separated pieces, a
// name becomes its words.
func splitAttr(attr string) []string {
	attr = strings.ToLower(strings.TrimSpace(attr))
	if attr == "" {
		return nil
	}
	if at := strings.IndexByte(attr, '@'); at > 0 {
		attr = attr[:at]
	}
	return strings.FieldsFunc(attr, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == ' '
	})
}
