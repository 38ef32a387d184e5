// Package joincode generates and validates the short public codes players
// use to find a session.
package joincode

import (
	"regexp"

	"github.com/quizbuzz/quizbuzz/internal/dependencies/random"
)

const (
	// Length is the number of characters in a join code
	Length = 6
	// Alphabet excludes visually ambiguous characters (I, O, 0, 1)
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var codePattern = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{6}$`)

// Generator produces join codes from the restricted alphabet. Collision
// checking against the registry is the caller's responsibility.
type Generator struct {
	random random.Random
}

// NewGenerator creates a Generator backed by the given random source
func NewGenerator(rnd random.Random) *Generator {
	return &Generator{random: rnd}
}

// Generate returns a new join code
func (g *Generator) Generate() string {
	return g.random.String(Length, Alphabet)
}

// IsValid reports whether code has the expected join code format
func IsValid(code string) bool {
	return codePattern.MatchString(code)
}
