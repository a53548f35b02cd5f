// Package shortcode generates random short codes and guarantees the
// returned code is absent from the store at generation time.
package shortcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength is the code length used when the caller passes 0.
const DefaultLength = 6

// maxAttempts caps the collision-retry loop. With 62^6 possible codes a
// single collision is already unlikely; hitting the cap means the
// codespace is effectively full for this domain.
const maxAttempts = 1000

// ErrCodespaceExhausted is returned when maxAttempts consecutive
// candidates all collided.
var ErrCodespaceExhausted = errors.New("shortcode: codespace exhausted")

// ExistsFunc reports whether a code is already present in the store for
// the domain being targeted. It must not mutate state.
type ExistsFunc func(code string) (bool, error)

// Generate produces a fresh code of the given length (DefaultLength when
// length <= 0), retrying with new randomness until exists reports the
// candidate absent. In theory a run of collisions could loop forever;
// the retry cap bounds that astronomically unlikely case and surfaces it
// as ErrCodespaceExhausted instead.
func Generate(length int, exists ExistsFunc) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := random(length)
		if err != nil {
			return "", err
		}
		taken, err := exists(code)
		if err != nil {
			return "", fmt.Errorf("shortcode: existence check: %w", err)
		}
		if !taken {
			return code, nil
		}
	}

	return "", ErrCodespaceExhausted
}

func random(length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("shortcode: read randomness: %w", err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}
