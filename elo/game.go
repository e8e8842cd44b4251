/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"fmt"
	"sync"
)

// GameOptions are the optional initial fields of a Game.
type GameOptions struct {
	// Result, if set, resolves the game as soon as it is constructed.
	Result *float64
}

// Game is a match between two players. Once the result is known it
// propagates the new ratings to both players.
type Game struct {
	mu sync.Mutex

	one *Player
	two *Player

	result   float64
	resolved bool
	ratings  map[*Player]Rating
}

// NewGame creates a game between one and two. The result is always from
// the perspective of one. If opts carries a result which cannot be
// applied, the pending game is returned along with the error.
func NewGame(one, two *Player, opts GameOptions) (*Game, error) {
	if one == nil || two == nil {
		return nil, fmt.Errorf("elo.newgame: %w: nil player", ErrNotInGame)
	}
	if one == two {
		return nil, fmt.Errorf("elo.newgame: %w: %v", ErrSamePlayer, one)
	}

	g := &Game{one: one, two: two}
	if reg := one.config.Registry(); reg != nil {
		reg.AddGame(g)
	}

	if opts.Result != nil {
		if err := g.SetResult(*opts.Result); err != nil {
			return g, err
		}
	}

	return g, nil
}

// One is the player the result is expressed for.
func (g *Game) One() *Player {
	return g.one
}

func (g *Game) Two() *Player {
	return g.two
}

// Result returns the recorded result and whether one has been recorded.
func (g *Game) Result() (float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result, g.resolved
}

func (g *Game) Resolved() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolved
}

// SetResult records the result from the perspective of player one (1 is a
// win, 0 a loss, 0.5 a draw) and updates both players. Both new ratings
// are computed from the ratings as they stood before the game and are
// validated before either player is changed. A game can only be resolved
// once.
func (g *Game) SetResult(result float64) error {
	polOne := g.one.policy()
	polTwo := g.two.policy()

	if err := g.resolve(result, polOne, polTwo); err != nil {
		return err
	}

	savePlayer(g.one)
	savePlayer(g.two)
	saveGame(g)

	return nil
}

// resolve applies result to both players. The game is locked first, then
// the players in creation order, so concurrent games sharing a player
// cannot deadlock.
func (g *Game) resolve(result float64, polOne, polTwo policy) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolved {
		return fmt.Errorf("elo.setresult: %w: %v vs %v", ErrAlreadyResolved,
			g.one, g.two)
	}

	first, second := g.one, g.two
	if second.seq < first.seq {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	oneRating := g.one.ratingLocked()
	twoRating := g.two.ratingLocked()

	rOne := Rating{
		OldRating:   float64(oneRating),
		OtherRating: float64(twoRating),
		KFactor:     float64(g.one.kFactorLocked(polOne)),
		Result:      result,
	}
	rTwo := Rating{
		OldRating:   float64(twoRating),
		OtherRating: float64(oneRating),
		KFactor:     float64(g.two.kFactorLocked(polTwo)),
		Result:      1.0 - result,
	}

	newOne, err := rOne.NewRating()
	if err != nil {
		return fmt.Errorf("elo.setresult: %v vs %v: %w", g.one, g.two, err)
	}
	newTwo, err := rTwo.NewRating()
	if err != nil {
		return fmt.Errorf("elo.setresult: %v vs %v: %w", g.one, g.two, err)
	}

	g.result = result
	g.resolved = true
	g.ratings = map[*Player]Rating{g.one: rOne, g.two: rTwo}
	g.one.applyResultLocked(g, newOne, polOne)
	g.two.applyResultLocked(g, newTwo, polTwo)

	return nil
}

// Win records a win for player one.
func (g *Game) Win() error {
	return g.SetResult(Win)
}

// Lose records a loss for player one.
func (g *Game) Lose() error {
	return g.SetResult(Loss)
}

func (g *Game) Draw() error {
	return g.SetResult(Draw)
}

// SetWinner resolves the game in favour of p.
func (g *Game) SetWinner(p *Player) error {
	switch p {
	case g.one:
		return g.SetResult(Win)
	case g.two:
		return g.SetResult(Loss)
	}
	return fmt.Errorf("elo.setwinner: %w: %v", ErrNotInGame, p)
}

// SetLoser resolves the game against p.
func (g *Game) SetLoser(p *Player) error {
	switch p {
	case g.one:
		return g.SetResult(Loss)
	case g.two:
		return g.SetResult(Win)
	}
	return fmt.Errorf("elo.setloser: %w: %v", ErrNotInGame, p)
}

// RatingFor returns the calculation made for p when the game resolved.
func (g *Game) RatingFor(p *Player) (Rating, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.ratings[p]
	return r, ok
}

// NewRating returns the rating p received from this game.
func (g *Game) NewRating(p *Player) (int, error) {
	r, ok := g.RatingFor(p)
	if !ok {
		return 0, fmt.Errorf("elo.newrating: %w: %v", ErrNotInGame, p)
	}
	return r.NewRating()
}

func (g *Game) String() string {
	result, resolved := g.Result()
	if !resolved {
		return fmt.Sprintf("%v::%v::pending", g.one.Rating(), g.two.Rating())
	}
	return fmt.Sprintf("%v::%v::%v", g.one.Rating(), g.two.Rating(), result)
}
