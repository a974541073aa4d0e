package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "alice martin", b: "alice martin", want: 1},
		{name: "word order ignored", a: "martin alice", b: "alice martin", want: 1},
		{name: "repeated tokens collapse", a: "alice alice martin", b: "alice martin", want: 1},
		{name: "both empty", a: "", b: "", want: 1},
		{name: "one empty", a: "", b: "alice martin", want: 0},
		{name: "whitespace only", a: "   ", b: "alice", want: 0},
		{name: "one letter added", a: "alice martin", b: "alice martins", want: 13.0 / 14.0},
		{name: "typo in both tokens", a: "alyce martine", b: "alice martin", want: (0.8 + 6.0/7.0) / 2},
		{name: "missing last name", a: "alice", b: "alice martin", want: 2.0 / 3.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NameSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestNameSimilarity_Properties(t *testing.T) {
	names := []string{
		"",
		"alice",
		"alice martin",
		"alice martins",
		"alyce martine",
		"bob stone",
		"jean pierre dupont",
		"dupont jean",
		"zoë müller",
		"zoe muller",
	}

	for _, a := range names {
		assert.Equal(t, 1.0, NameSimilarity(a, a), "reflexive for %q", a)
		for _, b := range names {
			ab := NameSimilarity(a, b)
			assert.Equal(t, ab, NameSimilarity(b, a), "symmetric for %q, %q", a, b)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
		}
	}
}

func TestNameSimilarity_DefaultThreshold(t *testing.T) {
	assert.GreaterOrEqual(t, NameSimilarity("alice martins", "alice martin"), DefaultFuzzyThreshold)
	assert.Less(t, NameSimilarity("alyce martine", "alice martin"), DefaultFuzzyThreshold)
	assert.Less(t, NameSimilarity("bob martin", "alice martin"), DefaultFuzzyThreshold)
}

func TestTokenSimilarity_CountsRunes(t *testing.T) {
	// One substitution over three runes; "ë" is two bytes.
	assert.InDelta(t, 2.0/3.0, tokenSimilarity("zoë", "zoe"), 1e-9)
}
