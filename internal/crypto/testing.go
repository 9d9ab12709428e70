package crypto

import (
	"crypto/rand"
	"io"
)

var randReader io.Reader = rand.Reader

// SetRandReaderForTesting sets the random reader used for key generation,
// nonces and encapsulation. Returns a function to restore the original reader.
func SetRandReaderForTesting(r io.Reader) func() {
	original := randReader
	randReader = r
	return func() { randReader = original }
}
