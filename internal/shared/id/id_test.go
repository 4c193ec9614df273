package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionID(t *testing.T) {
	id1 := NewSessionID()
	id2 := NewSessionID()

	assert.NotEqual(t, id1, id2, "Generated IDs should be unique")

	_, err := uuid.Parse(id1.String())
	require.NoError(t, err)
}

func TestCandidateShape(t *testing.T) {
	gen := NewGenerator()

	for i := 0; i < 100; i++ {
		candidate := gen.Candidate()
		assert.Regexp(t, `^[0-9a-z]{9}$`, candidate.String())
	}
}

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	a := NewSeededGenerator(1, 2)
	b := NewSeededGenerator(1, 2)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Candidate(), b.Candidate())
	}
}

func TestNewPackageIDRejectsUsed(t *testing.T) {
	ref := NewSeededGenerator(7, 7)
	first := ref.Candidate()
	second := ref.Candidate()

	gen := NewSeededGenerator(7, 7)
	got := gen.NewPackageID(func(candidate PackageID) bool {
		return candidate == first
	})

	assert.Equal(t, second, got)
}
