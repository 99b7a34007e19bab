package random

import (
	"crypto/rand"
	"math/big"
)

// idAlphabet is the character set used for generated entity IDs.
const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// idLength is the random suffix length of generated entity IDs.
const idLength = 20

// Random provides randomness that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// ID generates a prefixed entity ID such as "game_x3k..." using the
// shared ID alphabet. All entity IDs in the system use this form.
func ID(r Random, prefix string) string {
	return prefix + r.String(idLength, idAlphabet)
}

// CryptoRandom implements Random on top of crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand should never fail; 0 keeps callers total
		return 0
	}
	return int(v.Int64())
}

// String generates a random string of the given length from the given alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
