package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt hash at the default cost. The hash embeds its
// own salt and cost, so it is the only value stored for a user credential.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash reports whether the plaintext matches the stored bcrypt
// hash. All failure modes, including a malformed hash, read as a mismatch.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
