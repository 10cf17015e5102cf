package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// SecretGate checks the shared mutation secret. Holding the secret allows
// changing any user's memories.
type SecretGate struct {
	hash []byte
}

// NewSecretGate prefers a ready bcrypt hash and otherwise hashes plain.
// With neither set the gate rejects every mutation.
func NewSecretGate(plain, hash string) (*SecretGate, error) {
	switch {
	case hash != "":
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid mutation secret hash: %w", err)
		}
		return &SecretGate{hash: []byte(hash)}, nil
	case plain != "":
		h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash mutation secret: %w", err)
		}
		return &SecretGate{hash: h}, nil
	default:
		return &SecretGate{}, nil
	}
}

// Configured reports whether any secret can pass the gate.
func (g *SecretGate) Configured() bool {
	return len(g.hash) > 0
}

// Check returns common.ErrorUnauthorized unless secret matches.
func (g *SecretGate) Check(secret string) error {
	if !g.Configured() || secret == "" {
		return common.ErrorUnauthorized
	}
	err := bcrypt.CompareHashAndPassword(g.hash, []byte(secret))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}
	return nil
}
