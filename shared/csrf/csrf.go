package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const TokenLength = 32 // bytes

var ErrMalformed = errors.New("malformed csrf token")

// GenerateToken creates a cryptographically secure random token
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// Sign appends a keyed BLAKE2b MAC to token: "<token>.<mac>".
func Sign(key []byte, token string) (string, error) {
	mac, err := macOf(key, token)
	if err != nil {
		return "", err
	}
	return token + "." + mac, nil
}

// Verify reports whether signed carries a valid MAC under key.
func Verify(key []byte, signed string) bool {
	token, mac, ok := strings.Cut(signed, ".")
	if !ok || token == "" || mac == "" {
		return false
	}
	expected, err := macOf(key, token)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(mac)) == 1
}

// ValidateToken compares the cookie token with the form token
func ValidateToken(cookieToken, formToken string) bool {
	if cookieToken == "" || formToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(formToken)) == 1
}

func macOf(key []byte, token string) (string, error) {
	h, err := blake2b.New256(key)
	if err != nil {
		return "", ErrMalformed
	}
	h.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}
