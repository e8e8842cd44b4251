/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"testing"
)

func ruleKs(rules []Rule) []int {
	ks := make([]int, len(rules))
	for i, r := range rules {
		ks[i] = r.KFactor
	}
	return ks
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestConfigurationDefaults(t *testing.T) {
	c := NewConfiguration()

	if c.DefaultRating() != 1000 {
		t.Errorf("DefaultRating = %d; want 1000", c.DefaultRating())
	}
	if c.DefaultKFactor() != 15 {
		t.Errorf("DefaultKFactor = %d; want 15", c.DefaultKFactor())
	}
	if c.ProRatingBoundary() != 2400 {
		t.Errorf("ProRatingBoundary = %d; want 2400", c.ProRatingBoundary())
	}
	if c.StarterBoundary() != 30 {
		t.Errorf("StarterBoundary = %d; want 30", c.StarterBoundary())
	}
	if !c.UseBuiltinPolicy() {
		t.Errorf("UseBuiltinPolicy = false; want true")
	}
	if c.Registry() != nil {
		t.Errorf("Registry should be nil by default")
	}
	if _, ok := c.Persister().(NopPersister); !ok {
		t.Errorf("Persister should default to NopPersister; got %T", c.Persister())
	}
}

func TestEffectiveRulesInstallsBuiltinOnce(t *testing.T) {
	c := NewConfiguration()

	if got := ruleKs(c.EffectiveRules()); !equalInts(got, []int{10, 25}) {
		t.Fatalf("EffectiveRules = %v; want [10 25]", got)
	}
	if got := ruleKs(c.EffectiveRules()); !equalInts(got, []int{10, 25}) {
		t.Fatalf("second EffectiveRules = %v; want [10 25]", got)
	}

	c.SetUseBuiltinPolicy(false)
	c.SetUseBuiltinPolicy(true)
	if got := ruleKs(c.EffectiveRules()); !equalInts(got, []int{10, 25}) {
		t.Fatalf("EffectiveRules after toggling = %v; want [10 25]", got)
	}
}

func TestEffectiveRulesUserRulesFirst(t *testing.T) {
	c := NewConfiguration()
	always := func(PlayerView) bool { return true }

	c.AddRule(40, always)
	if got := ruleKs(c.EffectiveRules()); !equalInts(got, []int{40, 10, 25}) {
		t.Fatalf("EffectiveRules = %v; want [40 10 25]", got)
	}

	// rules added after the builtin policy was installed come after it
	c.AddRule(5, always)
	if got := ruleKs(c.EffectiveRules()); !equalInts(got, []int{40, 10, 25, 5}) {
		t.Fatalf("EffectiveRules = %v; want [40 10 25 5]", got)
	}
}

func TestEffectiveRulesWithoutBuiltin(t *testing.T) {
	c := NewConfiguration()
	c.SetUseBuiltinPolicy(false)

	if rules := c.EffectiveRules(); len(rules) != 0 {
		t.Fatalf("expected no rules; got %v", ruleKs(rules))
	}

	c.AddRule(12, func(PlayerView) bool { return true })
	if got := ruleKs(c.EffectiveRules()); !equalInts(got, []int{12}) {
		t.Fatalf("EffectiveRules = %v; want [12]", got)
	}
}

func TestEffectiveRulesReturnsCopy(t *testing.T) {
	c := NewConfiguration()
	rules := c.EffectiveRules()
	rules[0].KFactor = 99

	if got := ruleKs(c.EffectiveRules()); !equalInts(got, []int{10, 25}) {
		t.Fatalf("EffectiveRules should not be affected by caller; got %v", got)
	}
}

func TestDefaultConfiguration(t *testing.T) {
	resetDefault()
	t.Cleanup(resetDefault)

	if Default() != Default() {
		t.Fatalf("Default should return the same Configuration")
	}

	if r := NewPlayer(PlayerOptions{}).Rating(); r != 1000 {
		t.Fatalf("new player rating = %d; want 1000", r)
	}

	Configure(func(c *Configuration) {
		c.SetDefaultRating(1337)
	})
	if Default().DefaultRating() != 1337 {
		t.Fatalf("DefaultRating = %d; want 1337", Default().DefaultRating())
	}
	if r := NewPlayer(PlayerOptions{}).Rating(); r != 1337 {
		t.Fatalf("new player rating = %d; want 1337", r)
	}
}

func TestConfigurationNilPersister(t *testing.T) {
	c := NewConfiguration()
	c.SetPersister(nil)
	if _, ok := c.Persister().(NopPersister); !ok {
		t.Fatalf("nil persister should restore NopPersister; got %T", c.Persister())
	}
}
