package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuessPoints(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		elapsed  float64
		expected int
	}{
		{elapsed: 10, expected: 200},
		{elapsed: 1, expected: 2000},
		{elapsed: 7, expected: 286},
		{elapsed: 80, expected: 25},
		{elapsed: 0, expected: 0},
		{elapsed: -1, expected: 0},
		{elapsed: math.NaN(), expected: 0},
		{elapsed: math.Inf(1), expected: 0},
		{elapsed: 1e-17, expected: MaxPoints},
		{elapsed: math.SmallestNonzeroFloat64, expected: MaxPoints},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, GuessPoints(tc.elapsed), "elapsed=%v", tc.elapsed)
	}
}

func TestAddPoints(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		total    int
		award    int
		expected int
	}{
		{total: 0, award: 200, expected: 200},
		{total: 150, award: 0, expected: 150},
		{total: 150, award: -10, expected: 150},
		{total: MaxPoints - 1, award: 1, expected: MaxPoints},
		{total: MaxPoints - 1, award: MaxPoints, expected: MaxPoints},
		{total: MaxPoints, award: MaxPoints, expected: MaxPoints},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, AddPoints(tc.total, tc.award), "total=%d award=%d", tc.total, tc.award)
	}
}

func TestIsCorrectGuess(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCorrectGuess("apple", "apple"))
	assert.False(t, IsCorrectGuess("Apple", "apple"))
	assert.False(t, IsCorrectGuess("apple ", "apple"))
	assert.False(t, IsCorrectGuess("", ""))
}

func TestCloseGuessDistance(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc          string
		msg           string
		word          string
		expectedDist  int
		expectedClose bool
	}{
		{desc: "one typo", msg: "aple", word: "apple", expectedDist: 1, expectedClose: true},
		{desc: "swapped letters", msg: "appel", word: "apple", expectedDist: 2, expectedClose: true},
		{desc: "case only", msg: "APPLE", word: "apple", expectedDist: 0, expectedClose: true},
		{desc: "far off", msg: "banana", word: "apple", expectedDist: 5, expectedClose: false},
		{desc: "exact match is not a hint", msg: "apple", word: "apple"},
		{desc: "blank message", msg: "   ", word: "apple"},
		{desc: "no word", msg: "apple", word: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			dist, near := CloseGuessDistance(tc.msg, tc.word)
			assert.Equal(t, tc.expectedClose, near)
			if tc.expectedClose || tc.expectedDist > 0 {
				assert.Equal(t, tc.expectedDist, dist)
			}
		})
	}
}
