package credentials

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash indicates a stored hash that bcrypt cannot parse. Seeing
// it means the record is corrupt, not that the password was wrong.
var ErrMalformedHash = errors.New("credentials: malformed password hash")

// Cost 10 keeps a single hash in the tens-of-milliseconds range, slow
// enough to resist offline brute force without hurting interactive latency.
const cost = 10

// Hash returns a salted bcrypt hash of the password. Two calls with the
// same password yield different hashes (bcrypt embeds a random salt).
func Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether password matches the stored hash. Comparison goes
// through bcrypt's own constant-time routine, never string equality on
// recomputed hashes.
func Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrMalformedHash
	}
}
