/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var playerSeq atomic.Uint64

// PlayerOptions are the optional initial fields of a Player. Unset fields
// fall back to the player's Configuration.
type PlayerOptions struct {
	Name string
	// Rating defaults to Configuration.DefaultRating on first read.
	Rating *int
	// GamesPlayed defaults to the number of games in the player's history.
	GamesPlayed *int
	// Pro marks a player who crossed the pro rating boundary in the past,
	// e.g. when restoring a player from external storage.
	Pro bool
	// KFactor, if set, bypasses the Configuration's K-factor rules.
	KFactor *int
	// Config defaults to Default().
	Config *Configuration
}

// Int returns a pointer to v, for use in PlayerOptions.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v, for use in GameOptions.
func Float(v float64) *float64 {
	return &v
}

// PlayerView is the read-only state K-factor rules are evaluated against.
type PlayerView struct {
	Rating      int
	GamesPlayed int
	// Pro is sticky: it stays true once the player reaches the pro rating
	// boundary, even if their rating falls again.
	Pro       bool
	ProRating bool
	Starter   bool
}

// Player is a contestant. You need at least two to play a Game.
type Player struct {
	mu sync.Mutex

	seq    uint64
	name   string
	config *Configuration

	rating    int
	ratingSet bool

	gamesPlayed    int
	gamesPlayedSet bool
	games          []*Game

	pro       bool
	overrideK *int
}

func NewPlayer(opts PlayerOptions) *Player {
	p := &Player{
		seq:    playerSeq.Add(1),
		name:   opts.Name,
		config: opts.Config,
		pro:    opts.Pro,
	}
	if p.config == nil {
		p.config = Default()
	}
	if opts.Rating != nil {
		p.rating = *opts.Rating
		p.ratingSet = true
	}
	if opts.GamesPlayed != nil {
		p.gamesPlayed = *opts.GamesPlayed
		p.gamesPlayedSet = true
	}
	if opts.KFactor != nil {
		k := *opts.KFactor
		p.overrideK = &k
	}

	if reg := p.config.Registry(); reg != nil {
		reg.AddPlayer(p)
	}

	return p
}

func (p *Player) Name() string {
	return p.name
}

func (p *Player) Config() *Configuration {
	return p.config
}

func (p *Player) String() string {
	if p.name != "" {
		return p.name
	}
	return fmt.Sprintf("player#%d", p.seq)
}

// Rating returns the player's current rating. A player who was given no
// rating and has not played takes the configured default, which is then
// kept even if the default later changes.
func (p *Player) Rating() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ratingLocked()
}

func (p *Player) ratingLocked() int {
	if !p.ratingSet {
		p.rating = p.config.DefaultRating()
		p.ratingSet = true
	}
	return p.rating
}

// GamesPlayed is seeded from the game history once and then incremented
// for every game the player plays.
func (p *Player) GamesPlayed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gamesPlayedLocked()
}

func (p *Player) gamesPlayedLocked() int {
	if !p.gamesPlayedSet {
		p.gamesPlayed = len(p.games)
		p.gamesPlayedSet = true
	}
	return p.gamesPlayed
}

// Games returns the games played by this player in chronological order.
func (p *Player) Games() []*Game {
	p.mu.Lock()
	defer p.mu.Unlock()
	ret := make([]*Game, len(p.games))
	copy(ret, p.games)
	return ret
}

// IsPro reports whether the player has ever reached the pro rating
// boundary. FIDE regulations make this status permanent.
func (p *Player) IsPro() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pro
}

// IsProRating reports whether the player's current rating is at or above
// the pro rating boundary.
func (p *Player) IsProRating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ratingLocked() >= p.config.ProRatingBoundary()
}

// IsStarter reports whether the player has played fewer games than the
// starter boundary.
func (p *Player) IsStarter() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gamesPlayedLocked() < p.config.StarterBoundary()
}

// View returns a snapshot of the state K-factor rules see.
func (p *Player) View() PlayerView {
	pol := p.config.settings()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked(pol)
}

func (p *Player) viewLocked(pol policy) PlayerView {
	rating := p.ratingLocked()
	games := p.gamesPlayedLocked()
	return PlayerView{
		Rating:      rating,
		GamesPlayed: games,
		Pro:         p.pro,
		ProRating:   rating >= pol.proRatingBoundary,
		Starter:     games < pol.starterBoundary,
	}
}

// KFactor returns the K-factor used for the player's next game. An
// explicit K-factor from PlayerOptions wins; otherwise the first
// Configuration rule that applies is used, falling back to the default.
// A panicking rule propagates to the caller.
func (p *Player) KFactor() int {
	pol := p.policy()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kFactorLocked(pol)
}

// KFactorOverride returns the K-factor given in PlayerOptions, if any.
func (p *Player) KFactorOverride() (int, bool) {
	if p.overrideK == nil {
		return 0, false
	}
	return *p.overrideK, true
}

// policy snapshots the configuration for a K-factor lookup. The rules are
// only consulted, and so only installed, when the player has no override.
func (p *Player) policy() policy {
	if p.overrideK != nil {
		return p.config.settings()
	}
	return p.config.snapshot()
}

func (p *Player) kFactorLocked(pol policy) int {
	if p.overrideK != nil {
		return *p.overrideK
	}
	view := p.viewLocked(pol)
	for _, rule := range pol.rules {
		if rule.Applies(view) {
			return rule.KFactor
		}
	}
	return pol.defaultKFactor
}

// Versus starts a game against opponent. Unless opts carries a result,
// nothing is calculated yet.
func (p *Player) Versus(opponent *Player, opts GameOptions) (*Game, error) {
	return NewGame(p, opponent, opts)
}

// WinsFrom starts a game against opponent and records a win.
func (p *Player) WinsFrom(opponent *Player) (*Game, error) {
	return p.playResult(opponent, Win)
}

// LosesFrom starts a game against opponent and records a loss.
func (p *Player) LosesFrom(opponent *Player) (*Game, error) {
	return p.playResult(opponent, Loss)
}

// PlaysDraw starts a game against opponent and records a draw.
func (p *Player) PlaysDraw(opponent *Player) (*Game, error) {
	return p.playResult(opponent, Draw)
}

func (p *Player) playResult(opponent *Player, result float64) (*Game, error) {
	return p.Versus(opponent, GameOptions{Result: Float(result)})
}

// applyResultLocked records a resolved game. Only Game calls this, with
// both players locked.
func (p *Player) applyResultLocked(g *Game, newRating int, pol policy) {
	p.gamesPlayed = p.gamesPlayedLocked() + 1
	p.games = append(p.games, g)
	p.rating = newRating
	p.ratingSet = true
	if p.rating >= pol.proRatingBoundary {
		p.pro = true
	}
}
