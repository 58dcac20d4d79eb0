package util

import (
	"net/http"
	"testing"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "test-secret")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	userID, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("got user id %d, want 42", userID)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(42, "test-secret")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc.def.ghi", "abc.def.ghi"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		r, _ := http.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := ExtractToken(r); got != tt.want {
			t.Errorf("ExtractToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword("hunter22", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("hunter23", hash) {
		t.Error("wrong password accepted")
	}
}
