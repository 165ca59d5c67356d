package slug

import (
	"crypto/rand"
)

// URL-safe alphabet, 64 symbols. 12 characters drawn from it carry
// 12*log2(64) = 72 bits of entropy, which keeps the collision probability
// negligible at any realistic post volume (birthday bound ~2^36 records),
// so no uniqueness retry loop is performed on insert.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// Length of generated slugs (and of upload object keys).
const Length = 12

// New returns a fresh 12-character identifier drawn from a
// cryptographically strong source.
func New() string {
	b := make([]byte, Length)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms; treat a failure
		// as the catastrophic entropy condition it is.
		panic("slug: crypto/rand unavailable: " + err.Error())
	}
	for i := range b {
		b[i] = alphabet[int(b[i])&63]
	}
	return string(b)
}
