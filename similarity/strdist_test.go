package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"gumbo", "gambol", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, levenshtein([]rune(tt.a), []rune(tt.b)))
		})
	}
}

func TestLCSLength(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 0},
		{"abc", "abc", 3},
		{"abcde", "ace", 3},
		{"aggtab", "gxtxayb", 4},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, lcsLength([]rune(tt.a), []rune(tt.b)))
		})
	}
}

func TestJaro(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "", 0},
		{"abc", "abc", 1},
		{"martha", "marhta", 0.944444},
		{"dixon", "dicksonx", 0.766667},
		{"abc", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, jaro([]rune(tt.a), []rune(tt.b)), 1e-5)
		})
	}
}

func TestJaroWinkler(t *testing.T) {
	// classic reference value
	assert.InDelta(t, 0.961111, jaroWinkler([]rune("martha"), []rune("marhta")), 1e-5)

	// prefix bonus capped at 4 characters
	long := jaroWinkler([]rune("prefixes"), []rune("prefixed"))
	assert.Greater(t, long, jaro([]rune("prefixes"), []rune("prefixed")))

	// no bonus below the 0.7 threshold
	weak := jaroWinkler([]rune("abcdef"), []rune("afedcb"))
	assert.Equal(t, jaro([]rune("abcdef"), []rune("afedcb")), weak)
}

func TestJaro_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"martha", "marhta"},
		{"dwayne", "duane"},
		{"", "abc"},
	}
	for _, pair := range pairs {
		assert.InDelta(t,
			jaro([]rune(pair[0]), []rune(pair[1])),
			jaro([]rune(pair[1]), []rune(pair[0])), 1e-12)
	}
}
