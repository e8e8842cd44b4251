/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ladder

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mikeb26/chesselo/elo"
	"github.com/mikeb26/chesselo/internal"
)

// PlayerLoader restores previously saved players, e.g. an s3store.Store.
type PlayerLoader interface {
	LoadPlayer(name string) (elo.PlayerOptions, bool, error)
}

// Ladder tracks a set of named players sharing one rating policy.
type Ladder struct {
	mu      sync.Mutex
	config  *elo.Configuration
	loader  PlayerLoader
	seeds   map[string]RosterEntry
	players map[string]*elo.Player
	order   []string
}

func New(config *elo.Configuration) *Ladder {
	if config == nil {
		config = elo.Default()
	}
	return &Ladder{
		config:  config,
		seeds:   make(map[string]RosterEntry),
		players: make(map[string]*elo.Player),
	}
}

func (l *Ladder) Config() *elo.Configuration {
	return l.config
}

// SetLoader installs a source for players that are not on the roster.
func (l *Ladder) SetLoader(loader PlayerLoader) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loader = loader
}

// Seed registers roster entries. A seeded player takes the entry's initial
// state when first seen; players that already exist are not changed.
func (l *Ladder) Seed(entries []RosterEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range entries {
		l.seeds[internal.NormalizeName(e.Name)] = e
	}
}

// Player returns the player called name, creating it on first use from the
// roster, the loader or the configured defaults, in that order.
func (l *Ladder) Player(name string) (*elo.Player, error) {
	key := internal.NormalizeName(name)
	if key == "" {
		return nil, fmt.Errorf("ladder.player: empty player name")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.players[key]; ok {
		return p, nil
	}

	opts := elo.PlayerOptions{Name: key, Config: l.config}
	if seed, ok := l.seeds[key]; ok {
		opts = seed.Options(l.config)
		opts.Name = key
	} else if l.loader != nil {
		loaded, ok, err := l.loader.LoadPlayer(key)
		if err != nil {
			return nil, fmt.Errorf("ladder.player: loading %v: %w", key, err)
		}
		if ok {
			opts = loaded
			opts.Name = key
			opts.Config = l.config
		}
	}

	p := elo.NewPlayer(opts)
	l.players[key] = p
	l.order = append(l.order, key)
	return p, nil
}

// Players returns every player in the order they joined the ladder.
func (l *Ladder) Players() []*elo.Player {
	l.mu.Lock()
	defer l.mu.Unlock()
	ret := make([]*elo.Player, 0, len(l.order))
	for _, key := range l.order {
		ret = append(ret, l.players[key])
	}
	return ret
}

// Record plays m and returns the resolved game.
func (l *Ladder) Record(m Match) (*elo.Game, error) {
	white, err := l.Player(m.White)
	if err != nil {
		return nil, err
	}
	black, err := l.Player(m.Black)
	if err != nil {
		return nil, err
	}

	g, err := white.Versus(black, elo.GameOptions{Result: elo.Float(m.Result)})
	if err != nil {
		return nil, fmt.Errorf("ladder.record: line %d: %w", m.Line, err)
	}
	return g, nil
}

// Replay records matches in date order. Matches on the same date keep
// their log order. A match without a date stays after the match logged
// before it, so an undated log is replayed as written. Replay stops at the
// first match that cannot be recorded; the matches before it remain
// applied.
func (l *Ladder) Replay(matches []Match) ([]*elo.Game, error) {
	type dated struct {
		m    Match
		date time.Time
	}
	sorted := make([]dated, len(matches))
	var last time.Time
	for i, m := range matches {
		if !m.Date.IsZero() {
			last = m.Date
		}
		sorted[i] = dated{m: m, date: last}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].date.Before(sorted[j].date)
	})

	games := make([]*elo.Game, 0, len(sorted))
	for _, d := range sorted {
		g, err := l.Record(d.m)
		if err != nil {
			return games, err
		}
		games = append(games, g)
	}
	return games, nil
}
