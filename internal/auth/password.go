package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher is the hashing boundary: plaintext goes in, bcrypt output
// comes out, and nothing stores or logs the plaintext. bcrypt embeds a fresh
// random salt in every hash, so two hashes of the same password differ.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost. Costs outside
// bcrypt's valid range fall back to the default.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: cost}
}

// Hash produces a salted one-way hash of the plaintext. A hashing failure is
// fatal for the calling flow; there is no fallback to a weaker scheme.
func (h PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. Comparison is
// delegated to bcrypt's own compare routine; mismatch and malformed hashes
// both return false, never an error.
func (h PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
