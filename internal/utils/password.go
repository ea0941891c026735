package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing parameters.  The digest format must stay stable: the
// stored credential of every existing account depends on it.
const (
	pbkdf2Iterations = 100000
	saltBytes        = 32
	keyBytes         = 32
)

// HashPassword derives a PBKDF2-SHA256 digest of the password using a
// fresh random salt.  It returns the hex digest and the hex salt, which
// are stored in the users.password_hash and users.salt columns.
func HashPassword(plain string) (hash, salt string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(raw)
	return hashWithSalt(plain, salt), salt, nil
}

// VerifyPassword recomputes the digest of plain with the stored salt and
// compares it against the stored hash in constant time.
func VerifyPassword(hash, salt, plain string) bool {
	calc := hashWithSalt(plain, salt)
	return subtle.ConstantTimeCompare([]byte(calc), []byte(hash)) == 1
}

// hashWithSalt derives the hex digest for a password and an existing hex
// salt.  The salt bytes fed to PBKDF2 are the hex string itself, matching
// the stored credential format.
func hashWithSalt(plain, salt string) string {
	key := pbkdf2.Key([]byte(plain), []byte(salt), pbkdf2Iterations, keyBytes, sha256.New)
	return hex.EncodeToString(key)
}
