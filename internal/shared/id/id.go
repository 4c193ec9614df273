// Package id provides centralized ID generation for the exporter.
//
// Two kinds of identifiers are produced:
//   - Session IDs: UUIDv4 strings used to correlate log lines of one export run
//   - Package IDs: short FairyGUI package ids drawn from a fixed alphabet
//
// Package ids only need to be unique within one target asset tree, so they are
// produced by rejection sampling against the caller's set of used ids rather
// than from a cryptographic source.
package id

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// SessionID identifies one export session
type SessionID string

// PackageID identifies a FairyGUI package descriptor
type PackageID string

const (
	// PackageAlphabet is the character set package ids are drawn from.
	PackageAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// PackageIDLength is the length of generated package ids.
	PackageIDLength = 9
)

// NewSessionID generates a new session ID
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// Generator draws package ids from a random source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from the runtime's random source.
func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededGenerator creates a deterministic generator.
// Useful for testing.
func NewSeededGenerator(seed1, seed2 uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Candidate returns one random package id without checking for collisions.
func (g *Generator) Candidate() PackageID {
	var b strings.Builder
	b.Grow(PackageIDLength)
	for i := 0; i < PackageIDLength; i++ {
		b.WriteByte(PackageAlphabet[g.rng.IntN(len(PackageAlphabet))])
	}
	return PackageID(b.String())
}

// NewPackageID samples candidates until one is not reported as used.
func (g *Generator) NewPackageID(used func(PackageID) bool) PackageID {
	for {
		candidate := g.Candidate()
		if used == nil || !used(candidate) {
			return candidate
		}
	}
}

// String methods for ID types
func (id SessionID) String() string { return string(id) }
func (id PackageID) String() string { return string(id) }
