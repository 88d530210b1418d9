// Package securetoken populates record fields with secure random tokens.
package securetoken

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// Alphabet is the base58 character set used for generated tokens.
// The ambiguous characters 0, O, I and l are excluded so values are
// safe to transcribe and to embed in URLs.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// DefaultSize is the default character length of generated tokens.
const DefaultSize = 24

// ErrInvalidSize indicates a non-positive token size.
var ErrInvalidSize = errors.New("securetoken: token size must be a positive integer")

// Generate returns a cryptographically secure random string of exactly
// size characters drawn from Alphabet.
//
// size is a character length, not a byte count: each character carries
// log2(58) bits of entropy, so callers comparing entropy across encodings
// must account for the alphabet.
func Generate(size int) (string, error) {
	if size < 1 {
		return "", ErrInvalidSize
	}

	out := make([]byte, 0, size)
	// Oversample so a single read usually suffices despite rejections.
	buf := make([]byte, size+size/2+16)

	for {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("securetoken: read random: %w", err)
		}
		for _, b := range buf {
			// Rejection sampling over the low 6 bits keeps the
			// distribution uniform across the 58-symbol alphabet.
			idx := int(b & 0x3f)
			if idx >= len(Alphabet) {
				continue
			}
			out = append(out, Alphabet[idx])
			if len(out) == size {
				return string(out), nil
			}
		}
	}
}
