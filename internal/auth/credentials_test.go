package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("VerifyPassword rejected the original password")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	first, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if first == second {
		t.Error("Two hashes of the same password must differ")
	}
	if !VerifyPassword(first, "same password") || !VerifyPassword(second, "same password") {
		t.Error("Both hashes must still verify")
	}
}

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	saltHex, digestHex, found := strings.Cut(hash, "$")
	if !found {
		t.Fatalf("Hash %q has no separator", hash)
	}
	if len(saltHex) != saltLength*2 {
		t.Errorf("Salt hex length = %d, want %d", len(saltHex), saltLength*2)
	}
	if len(digestHex) != digestLength*2 {
		t.Errorf("Digest hex length = %d, want %d", len(digestHex), digestLength*2)
	}
}

func TestVerifyPassword_MalformedStoredValues(t *testing.T) {
	cases := []string{
		"",
		"no-separator",
		"$",
		"nothex$deadbeef",
		"deadbeef$nothex",
		"$deadbeef",
		"deadbeef$",
	}
	for _, stored := range cases {
		if VerifyPassword(stored, "anything") {
			t.Errorf("VerifyPassword(%q) = true, want false", stored)
		}
	}
}

func TestVerifyPassword_EmptyCandidate(t *testing.T) {
	hash, err := HashPassword("")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !VerifyPassword(hash, "") {
		t.Error("Empty password must verify against its own hash")
	}
	if VerifyPassword(hash, "nonempty") {
		t.Error("Non-empty candidate must not match the empty password hash")
	}
}
