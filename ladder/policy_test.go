/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ladder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikeb26/chesselo/elo"
)

const clubPolicy = `
default_rating = 1200
default_k_factor = 20
starter_boundary = 10
use_builtin_policy = false

# juniors move fast
[[rule]]
k_factor = 40
max_rating = 1000

[[rule]]
k_factor = 10
pro = true

[[rule]]
k_factor = 10
min_rating = 2300
min_games = 50

[[rule]]
k_factor = 30
starter = true
`

func TestLoadPolicy(t *testing.T) {
	c, err := LoadPolicy(strings.NewReader(clubPolicy))
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}

	if c.DefaultRating() != 1200 || c.DefaultKFactor() != 20 ||
		c.StarterBoundary() != 10 || c.UseBuiltinPolicy() {
		t.Fatalf("settings not applied")
	}
	if c.ProRatingBoundary() != elo.DefaultProRatingBoundary {
		t.Fatalf("ProRatingBoundary = %d; want the default", c.ProRatingBoundary())
	}

	cases := []struct {
		name  string
		opts  elo.PlayerOptions
		wantK int
	}{
		{"new player", elo.PlayerOptions{}, 30},
		{"junior", elo.PlayerOptions{Rating: elo.Int(900)}, 40},
		{"former pro", elo.PlayerOptions{Rating: elo.Int(2100), GamesPlayed: elo.Int(80), Pro: true}, 10},
		{"strong veteran", elo.PlayerOptions{Rating: elo.Int(2350), GamesPlayed: elo.Int(50)}, 10},
		{"strong but new", elo.PlayerOptions{Rating: elo.Int(2350), GamesPlayed: elo.Int(20)}, 20},
		{"club player", elo.PlayerOptions{Rating: elo.Int(1600), GamesPlayed: elo.Int(10)}, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.Config = c
			if k := elo.NewPlayer(tc.opts).KFactor(); k != tc.wantK {
				t.Errorf("KFactor = %d; want %d", k, tc.wantK)
			}
		})
	}
}

func TestLoadPolicyKeepsBuiltinAfterRules(t *testing.T) {
	c, err := LoadPolicy(strings.NewReader("[[rule]]\nk_factor = 50\nmax_games = 5\n"))
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}

	var ks []int
	for _, r := range c.EffectiveRules() {
		ks = append(ks, r.KFactor)
	}
	if len(ks) != 3 || ks[0] != 50 || ks[1] != 10 || ks[2] != 25 {
		t.Fatalf("rules = %v; want [50 10 25]", ks)
	}
}

func TestLoadPolicyErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":      "default_ratin = 1200\n",
		"missing k_factor": "[[rule]]\nmin_rating = 2000\n",
		"bad toml":         "default_rating = \n",
	}
	for name, policy := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadPolicy(strings.NewReader(policy)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestOpenPolicy(t *testing.T) {
	name := filepath.Join(t.TempDir(), "policy.toml")
	if err := os.WriteFile(name, []byte(clubPolicy), 0o600); err != nil {
		t.Fatalf("writing policy: %v", err)
	}
	c, err := OpenPolicy(name)
	if err != nil {
		t.Fatalf("OpenPolicy: %v", err)
	}
	if c.DefaultRating() != 1200 {
		t.Fatalf("DefaultRating = %d; want 1200", c.DefaultRating())
	}

	if _, err := OpenPolicy(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
