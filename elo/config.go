/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"sync"
)

const (
	DefaultRating            = 1000
	DefaultKFactor           = 15
	DefaultProRatingBoundary = 2400
	DefaultStarterBoundary   = 30

	fideProKFactor     = 10
	fideStarterKFactor = 25
)

// Predicate decides whether a K-factor rule applies to a player.
type Predicate func(p PlayerView) bool

// Rule pairs a K-factor with the predicate that selects it.
type Rule struct {
	KFactor int
	Applies Predicate
}

// Configuration holds the rating policy shared by every Player created
// against it. It is safe for concurrent use.
type Configuration struct {
	mu sync.RWMutex

	defaultRating     int
	defaultKFactor    int
	proRatingBoundary int
	starterBoundary   int
	useBuiltinPolicy  bool

	rules            []Rule
	appliedBuiltinKs bool

	persister Persister
	registry  Registry
}

// NewConfiguration returns a Configuration with FIDE style defaults: a
// starting rating of 1000, K=25 for starters (fewer than 30 games), K=10
// for players rated 2400 or more (now or in the past) and K=15 otherwise.
func NewConfiguration() *Configuration {
	return &Configuration{
		defaultRating:     DefaultRating,
		defaultKFactor:    DefaultKFactor,
		proRatingBoundary: DefaultProRatingBoundary,
		starterBoundary:   DefaultStarterBoundary,
		useBuiltinPolicy:  true,
		persister:         NopPersister{},
	}
}

var (
	defaultConfigMu sync.Mutex
	defaultConfig   *Configuration
)

// Default returns the process wide Configuration, creating it on first use.
func Default() *Configuration {
	defaultConfigMu.Lock()
	defer defaultConfigMu.Unlock()

	if defaultConfig == nil {
		defaultConfig = NewConfiguration()
	}
	return defaultConfig
}

// Configure passes the process wide Configuration to setup.
//
//	elo.Configure(func(c *elo.Configuration) {
//		c.SetUseBuiltinPolicy(false)
//		c.AddRule(10, func(p elo.PlayerView) bool { return p.Pro || p.ProRating })
//		c.AddRule(25, func(p elo.PlayerView) bool { return p.Starter })
//		c.SetDefaultKFactor(15)
//	})
func Configure(setup func(c *Configuration)) {
	setup(Default())
}

func resetDefault() {
	defaultConfigMu.Lock()
	defaultConfig = nil
	defaultConfigMu.Unlock()
}

// AddRule appends a K-factor rule. Rules are evaluated in the order they
// were added and the first one that applies determines the K-factor.
// Rules added before the builtin policy is first evaluated take
// precedence over it.
func (c *Configuration) AddRule(kFactor int, applies Predicate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rules = append(c.rules, Rule{KFactor: kFactor, Applies: applies})
}

// EffectiveRules returns a copy of the rules in evaluation order, first
// installing the builtin policy if it is enabled and not yet installed.
func (c *Configuration) EffectiveRules() []Rule {
	c.mu.RLock()
	needBuiltin := c.useBuiltinPolicy && !c.appliedBuiltinKs
	c.mu.RUnlock()

	if needBuiltin {
		c.mu.Lock()
		c.applyBuiltinRulesLocked()
		c.mu.Unlock()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	ret := make([]Rule, len(c.rules))
	copy(ret, c.rules)
	return ret
}

func (c *Configuration) applyBuiltinRulesLocked() {
	// re-check; another goroutine may have won the race for the write lock
	if !c.useBuiltinPolicy || c.appliedBuiltinKs {
		return
	}
	c.rules = append(c.rules,
		Rule{
			KFactor: fideProKFactor,
			Applies: func(p PlayerView) bool { return p.Pro || p.ProRating },
		},
		Rule{
			KFactor: fideStarterKFactor,
			Applies: func(p PlayerView) bool { return p.Starter },
		},
	)
	c.appliedBuiltinKs = true
}

func (c *Configuration) DefaultRating() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultRating
}

func (c *Configuration) SetDefaultRating(rating int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultRating = rating
}

// DefaultKFactor is used when no rule applies.
func (c *Configuration) DefaultKFactor() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultKFactor
}

func (c *Configuration) SetDefaultKFactor(k int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultKFactor = k
}

// ProRatingBoundary is the lowest rating at which a player is a pro.
func (c *Configuration) ProRatingBoundary() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.proRatingBoundary
}

func (c *Configuration) SetProRatingBoundary(rating int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.proRatingBoundary = rating
}

// StarterBoundary is the number of games a player needs to have played to
// no longer be a starter.
func (c *Configuration) StarterBoundary() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.starterBoundary
}

func (c *Configuration) SetStarterBoundary(games int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starterBoundary = games
}

// UseBuiltinPolicy reports whether the FIDE K-factor rules are installed
// on the first policy query.
func (c *Configuration) UseBuiltinPolicy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.useBuiltinPolicy
}

// SetUseBuiltinPolicy toggles the FIDE K-factor rules. Once installed they
// are never removed or installed twice, regardless of later toggling.
func (c *Configuration) SetUseBuiltinPolicy(use bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.useBuiltinPolicy = use
}

// SetPersister installs the hook invoked after players and games change.
// A nil persister restores the no-op default.
func (c *Configuration) SetPersister(p Persister) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p == nil {
		p = NopPersister{}
	}
	c.persister = p
}

func (c *Configuration) Persister() Persister {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.persister
}

// SetRegistry installs a registry that records every Player and Game
// constructed against this Configuration. nil disables recording.
func (c *Configuration) SetRegistry(r Registry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry = r
}

func (c *Configuration) Registry() Registry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry
}

// policy is a consistent snapshot of the settings needed to evaluate a
// player's K-factor.
type policy struct {
	proRatingBoundary int
	starterBoundary   int
	defaultKFactor    int
	rules             []Rule
}

func (c *Configuration) snapshot() policy {
	pol := c.settings()
	pol.rules = c.EffectiveRules()
	return pol
}

// settings is a snapshot without the rules. Reading it is not a policy
// query, so the builtin rules are not installed.
func (c *Configuration) settings() policy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return policy{
		proRatingBoundary: c.proRatingBoundary,
		starterBoundary:   c.starterBoundary,
		defaultKFactor:    c.defaultKFactor,
	}
}
