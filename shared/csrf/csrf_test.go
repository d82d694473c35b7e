package csrf

import (
	"strings"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestGenerateToken(t *testing.T) {
	token1, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	token2, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if token1 == token2 {
		t.Error("Expected different tokens, got same")
	}

	if len(token1) < 32 {
		t.Errorf("Token too short: %d", len(token1))
	}
}

func TestSignVerify(t *testing.T) {
	signed, err := Sign(testKey, "abc")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if !strings.HasPrefix(signed, "abc.") {
		t.Fatalf("unexpected signed token %q", signed)
	}

	tests := []struct {
		name   string
		key    []byte
		signed string
		want   bool
	}{
		{"valid", testKey, signed, true},
		{"other key", []byte("fedcba9876543210fedcba9876543210"), signed, false},
		{"tampered token", testKey, "abd" + signed[3:], false},
		{"no mac", testKey, "abc", false},
		{"empty mac", testKey, "abc.", false},
		{"empty", testKey, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Verify(tt.key, tt.signed); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSign_KeyTooLong(t *testing.T) {
	if _, err := Sign([]byte(strings.Repeat("k", 65)), "abc"); err == nil {
		t.Error("expected error for oversized key")
	}
}

func TestValidateToken(t *testing.T) {
	token := "test-token-123"

	tests := []struct {
		name        string
		cookieToken string
		formToken   string
		want        bool
	}{
		{"matching tokens", token, token, true},
		{"different tokens", token, "different", false},
		{"empty cookie", "", token, false},
		{"empty form", token, "", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateToken(tt.cookieToken, tt.formToken)
			if got != tt.want {
				t.Errorf("ValidateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}
