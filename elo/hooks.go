/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"log"
	"sync"
)

// Persister is implemented by applications that store players and games.
// SavePlayer is invoked after a player's rating and history change, and
// SaveGame after a game resolves. Neither is invoked while locks are held,
// so implementations may read the player or game they are given.
type Persister interface {
	SavePlayer(p *Player) error
	SaveGame(g *Game) error
}

// NopPersister discards everything.
type NopPersister struct{}

func (NopPersister) SavePlayer(*Player) error { return nil }
func (NopPersister) SaveGame(*Game) error     { return nil }

// Registry records every constructed Player and Game.
type Registry interface {
	AddPlayer(p *Player)
	AddGame(g *Game)
}

// MemRegistry is an in-memory Registry which preserves construction order.
type MemRegistry struct {
	mu      sync.Mutex
	players []*Player
	games   []*Game
}

func NewMemRegistry() *MemRegistry {
	return &MemRegistry{}
}

func (r *MemRegistry) AddPlayer(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = append(r.players, p)
}

func (r *MemRegistry) AddGame(g *Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games = append(r.games, g)
}

// Players returns the recorded players, oldest first.
func (r *MemRegistry) Players() []*Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]*Player, len(r.players))
	copy(ret, r.players)
	return ret
}

// Games returns the recorded games, oldest first.
func (r *MemRegistry) Games() []*Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]*Game, len(r.games))
	copy(ret, r.games)
	return ret
}

// savePlayer and saveGame run the persistence hooks. Failures are logged;
// the result has already been applied and is not rolled back.
func savePlayer(p *Player) {
	if err := p.config.Persister().SavePlayer(p); err != nil {
		log.Printf("elo.save: failed to save player %v: %v", p, err)
	}
}

func saveGame(g *Game) {
	if err := g.one.config.Persister().SaveGame(g); err != nil {
		log.Printf("elo.save: failed to save game %v: %v", g, err)
	}
}
