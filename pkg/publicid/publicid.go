// Package publicid generates the 16-character alphanumeric identifiers
// that are the only identifiers ever exposed across the trust boundary.
// Internal row keys never leave the store layer.
package publicid

import (
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the set of characters a public id is drawn from.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Length is the fixed length of every public id.
const Length = 16

var pattern = regexp.MustCompile(`^[0-9a-zA-Z]{16}$`)

// New returns a fresh public id.
func New() (string, error) {
	return gonanoid.Generate(Alphabet, Length)
}

// Valid reports whether s has the shape of a public id. It says nothing
// about whether such an id exists.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
