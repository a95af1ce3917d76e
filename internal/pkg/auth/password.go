package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidAPIKey = errors.New("invalid api key")

// KeyHasher defines hashing strategy for shared secrets.
type KeyHasher interface {
	Hash(secret string) (string, error)
	Compare(hash string, secret string) error
}

// BcryptHasher uses bcrypt to hash secrets.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns bcrypt hash for provided secret.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks secret against stored hash.
func (h *BcryptHasher) Compare(hash string, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}

// APIKeyVerifier guards the order seeding endpoint.
// With no configured hash every key is rejected.
type APIKeyVerifier struct {
	hash   string
	hasher KeyHasher
}

// NewAPIKeyVerifier builds a verifier for the bcrypt hash of the seeding key.
func NewAPIKeyVerifier(hash string, hasher KeyHasher) *APIKeyVerifier {
	return &APIKeyVerifier{hash: strings.TrimSpace(hash), hasher: hasher}
}

// Enabled reports whether a key hash is configured.
func (v *APIKeyVerifier) Enabled() bool {
	return v != nil && v.hash != ""
}

// Verify checks the presented key.
func (v *APIKeyVerifier) Verify(key string) error {
	if !v.Enabled() || key == "" {
		return ErrInvalidAPIKey
	}
	if err := v.hasher.Compare(v.hash, key); err != nil {
		return ErrInvalidAPIKey
	}
	return nil
}
