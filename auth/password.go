package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext secret with bcrypt. The per-credential
// salt is embedded in the returned value.
func HashPassword(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext secret against a stored bcrypt hash.
// Any error, including a malformed stored hash, counts as a mismatch.
func VerifyPassword(storedHash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(secret)) == nil
}
