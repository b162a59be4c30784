package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// HashIterations is fixed: the hash must be reproducible from the password
// and username alone, so the iteration count can never vary per record.
const HashIterations = 1024

const hashKeyLen = 32

// HashPassword derives the stored credential hash. The username is the salt,
// which keeps the hash deterministic for a given account.
func HashPassword(password, username string) string {
	key := pbkdf2.Key([]byte(password), []byte(username), HashIterations, hashKeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// VerifyPassword reports whether password hashes to encodedHash under the
// given username salt.
func VerifyPassword(password, username, encodedHash string) bool {
	computed := HashPassword(password, username)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(encodedHash)) == 1
}
