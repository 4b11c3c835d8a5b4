package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength       = 16
	digestLength     = 32
	pbkdf2Iterations = 10000
	separator        = "$"
)

// HashPassword derives a salted digest for storage. The output is
// hex(salt) + "$" + hex(digest); the salt is fresh on every call so the
// same password never hashes to the same string twice.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	digest := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, digestLength, sha256.New)
	return hex.EncodeToString(salt) + separator + hex.EncodeToString(digest), nil
}

// VerifyPassword recomputes the digest with the stored salt and compares
// in constant time. Malformed stored values (missing separator, bad hex,
// empty string) verify as false, never panic.
func VerifyPassword(stored, candidate string) bool {
	saltHex, digestHex, found := strings.Cut(stored, separator)
	if !found {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil || len(digest) == 0 {
		return false
	}
	computed := pbkdf2.Key([]byte(candidate), salt, pbkdf2Iterations, len(digest), sha256.New)
	return subtle.ConstantTimeCompare(computed, digest) == 1
}
