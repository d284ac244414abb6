package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"
)

// Hash returns the raw sha256 digest of b.
func Hash(b []byte) []byte {
	digest := sha256.Sum256(b)
	return digest[:]
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ123456789"

// GenerateRandomAlphabet returns a random alphanumeric string of length n,
// handy for synthetic wallet addresses in fixtures.
func GenerateRandomAlphabet(n uint) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[RandIntn(len(alphabet))]
	}
	return string(b)
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}
