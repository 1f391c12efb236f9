package encryption

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"github.com/xdg-go/pbkdf2"
)

const (
	iterations = 10000
	keyLength  = 32
	saltLength = 12
)

// NewSalt returns a random salt, hex encoded.
func NewSalt() (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return hex.EncodeToString(salt), nil
}

// DeriveKey derives a key from password and salt using PBKDF2 with SHA-256.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, iterations, keyLength, sha256.New)
}

// HashPassword returns the hex digest of password under the hex encoded salt.
func HashPassword(password, salt string) (string, error) {
	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(DeriveKey([]byte(password), rawSalt)), nil
}

// ComparePassword reports whether password matches digest under salt.
func ComparePassword(digest, salt, password string) bool {
	got, err := HashPassword(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(digest)) == 1
}

// SessionKeys derives the cookie authentication (64 bytes) and encryption
// (32 bytes) keys from a configured secret.
func SessionKeys(secret string) (hashKey, blockKey []byte, err error) {
	if secret == "" {
		return nil, nil, errors.New("session secret is empty")
	}
	hashKey = pbkdf2.Key([]byte(secret), []byte("bfsiocr/session/hash"), iterations, 64, sha256.New)
	blockKey = pbkdf2.Key([]byte(secret), []byte("bfsiocr/session/block"), iterations, keyLength, sha256.New)
	return hashKey, blockKey, nil
}

// RandomSecret returns a random hex secret of n bytes. Used when no session
// secret is configured, which makes every restart log all users out.
func RandomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
