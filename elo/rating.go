/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidResult   = errors.New("invalid result")
	ErrAlreadyResolved = errors.New("game already has a result")
	ErrSamePlayer      = errors.New("a player cannot play against itself")
	ErrNotInGame       = errors.New("player is not part of this game")
)

const (
	Win  = 1.0
	Draw = 0.5
	Loss = 0.0
)

// Rating calculates a new rating from one player's perspective. A Game
// needs two of these, one per player, and builds them automatically.
type Rating struct {
	// OldRating is the rating of the player being calculated.
	OldRating float64
	// OtherRating is the rating of the opponent.
	OtherRating float64
	KFactor     float64
	// Result is 1 for a win, 0 for a loss and 0.5 for a draw. Anything in
	// between is a valid fractional outcome.
	Result float64
}

// ExpectedScore is the probable outcome of a match for a player rated
// myRating against one rated otherRating.
// See https://en.wikipedia.org/wiki/Elo_rating_system#Mathematical_details
func ExpectedScore(myRating float64, otherRating float64) float64 {
	exp := math.Pow(10, (otherRating-myRating)/400.0)
	return 1.0 / (1.0 + exp)
}

func validResult(result float64) bool {
	return result >= 0.0 && result <= 1.0
}

// Expected returns the expected score of the player being calculated.
func (r Rating) Expected() float64 {
	return ExpectedScore(r.OldRating, r.OtherRating)
}

// Change returns the points earned (or lost) in the match.
func (r Rating) Change() (float64, error) {
	if !validResult(r.Result) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidResult, r.Result)
	}

	return r.KFactor * (r.Result - r.Expected()), nil
}

// NewRating returns the rating after the match. The fractional part is
// truncated, not rounded.
func (r Rating) NewRating() (int, error) {
	delta, err := r.Change()
	if err != nil {
		return 0, err
	}

	return int(r.OldRating + delta), nil
}
