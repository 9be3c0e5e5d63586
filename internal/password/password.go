package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// Hasher turns plaintext passwords into stored digests and verifies them.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// New returns the hasher for the given scheme name. Unknown schemes fall
// back to sha256 so that existing stored digests keep verifying.
func New(scheme string) Hasher {
	if scheme == "bcrypt" {
		return BcryptHasher{}
	}
	return SHA256Hasher{}
}

// SHA256Hasher produces hex-encoded unsalted SHA-256 digests, compatible
// with digests already present in the users table. Equal passwords always
// produce equal digests.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plain string) (string, error) {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:]), nil
}

func (SHA256Hasher) Verify(plain, digest string) bool {
	sum := sha256.Sum256([]byte(plain))
	computed := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// BcryptHasher is the salted replacement scheme. Digests it produces are
// not compatible with sha256 digests already stored.
type BcryptHasher struct{}

func (BcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
