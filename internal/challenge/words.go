package challenge

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// DefaultWordCount is the number of words in a challenge.
const DefaultWordCount = 4

// DefaultWords is the vocabulary challenges are drawn from.
var DefaultWords = []string{
	"anchor", "banana", "crystal", "dynamo", "ember", "falcon", "grove",
	"harbor", "island", "jungle", "koala", "lantern", "meteor", "nebula",
	"oasis", "plasma", "quartz", "raven", "saber", "temple", "utopia",
	"vortex", "wander", "xenon", "yonder", "zephyr",
}

// ErrEmptyVocabulary is returned when there are no words to draw from.
var ErrEmptyVocabulary = errors.New("empty challenge vocabulary")

// Generate draws n words uniformly from words using r and joins them with
// single spaces. A nil r means crypto/rand.
func Generate(words []string, n int, r io.Reader) (string, error) {
	if len(words) == 0 {
		return "", ErrEmptyVocabulary
	}
	if n <= 0 {
		return "", fmt.Errorf("invalid challenge word count %d", n)
	}
	if r == nil {
		r = rand.Reader
	}

	limit := big.NewInt(int64(len(words)))
	picked := make([]string, n)
	for i := range picked {
		idx, err := rand.Int(r, limit)
		if err != nil {
			return "", fmt.Errorf("failed to draw challenge word: %w", err)
		}
		picked[i] = words[idx.Int64()]
	}

	return strings.Join(picked, " "), nil
}
