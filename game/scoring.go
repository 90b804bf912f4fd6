package game

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	guessPointsBase   = 200
	guessPointsScale  = 10
	closeGuessMaxDist = 2

	// MaxPoints bounds both a single award and a player's running total.
	MaxPoints = math.MaxInt32
)

// IsCorrectGuess is exact, case-sensitive equality with no trimming. A room
// without a word accepts nothing.
func IsCorrectGuess(msg, word string) bool {
	return word != "" && msg == word
}

// GuessPoints awards round(200 / elapsed * 10), capped at MaxPoints. A
// non-positive elapsed time awards nothing.
func GuessPoints(elapsed float64) int {
	if elapsed <= 0 || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		return 0
	}
	points := math.Round(guessPointsBase / elapsed * guessPointsScale)
	if points >= MaxPoints {
		return MaxPoints
	}
	return int(points)
}

// AddPoints adds award to total, saturating at MaxPoints.
func AddPoints(total, award int) int {
	if award <= 0 {
		return total
	}
	if total >= MaxPoints-award {
		return MaxPoints
	}
	return total + award
}

// CloseGuessDistance returns the case-insensitive edit distance between msg
// and word, and whether it is close enough to hint the guesser.
func CloseGuessDistance(msg, word string) (int, bool) {
	if word == "" || msg == word {
		return 0, false
	}
	a := strings.ToLower(strings.TrimSpace(msg))
	b := strings.ToLower(word)
	if a == "" {
		return 0, false
	}
	dist := levenshtein.ComputeDistance(a, b)
	return dist, dist <= closeGuessMaxDist
}
