/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ladder

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/mikeb26/chesselo/elo"
)

// policyFile is the on-disk form of a K-factor policy:
//
//	default_rating = 1200
//	use_builtin_policy = false
//
//	[[rule]]
//	k_factor = 40
//	max_games = 10
//
//	[[rule]]
//	k_factor = 10
//	min_rating = 2400
//
// Unset settings keep the elo defaults. Rules are added in file order,
// and every condition a rule sets must hold for it to apply.
type policyFile struct {
	DefaultRating     *int         `toml:"default_rating"`
	DefaultKFactor    *int         `toml:"default_k_factor"`
	ProRatingBoundary *int         `toml:"pro_rating_boundary"`
	StarterBoundary   *int         `toml:"starter_boundary"`
	UseBuiltinPolicy  *bool        `toml:"use_builtin_policy"`
	Rules             []policyRule `toml:"rule"`
}

type policyRule struct {
	KFactor *int `toml:"k_factor"`
	// MinRating and MaxRating bound the rating: min <= rating < max.
	MinRating *int `toml:"min_rating"`
	MaxRating *int `toml:"max_rating"`
	// MinGames and MaxGames bound the games played: min <= games < max.
	MinGames  *int  `toml:"min_games"`
	MaxGames  *int  `toml:"max_games"`
	Pro       *bool `toml:"pro"`
	ProRating *bool `toml:"pro_rating"`
	Starter   *bool `toml:"starter"`
}

func (r policyRule) predicate() elo.Predicate {
	rule := r
	return func(p elo.PlayerView) bool {
		if rule.MinRating != nil && p.Rating < *rule.MinRating {
			return false
		}
		if rule.MaxRating != nil && p.Rating >= *rule.MaxRating {
			return false
		}
		if rule.MinGames != nil && p.GamesPlayed < *rule.MinGames {
			return false
		}
		if rule.MaxGames != nil && p.GamesPlayed >= *rule.MaxGames {
			return false
		}
		if rule.Pro != nil && p.Pro != *rule.Pro {
			return false
		}
		if rule.ProRating != nil && p.ProRating != *rule.ProRating {
			return false
		}
		if rule.Starter != nil && p.Starter != *rule.Starter {
			return false
		}
		return true
	}
}

// LoadPolicy parses a TOML policy from r into a new Configuration.
func LoadPolicy(r io.Reader) (*elo.Configuration, error) {
	var data policyFile
	md, err := toml.NewDecoder(r).Decode(&data)
	if err != nil {
		return nil, fmt.Errorf("ladder.policy: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("ladder.policy: unknown keys %v", undecoded)
	}

	c := elo.NewConfiguration()
	if data.DefaultRating != nil {
		c.SetDefaultRating(*data.DefaultRating)
	}
	if data.DefaultKFactor != nil {
		c.SetDefaultKFactor(*data.DefaultKFactor)
	}
	if data.ProRatingBoundary != nil {
		c.SetProRatingBoundary(*data.ProRatingBoundary)
	}
	if data.StarterBoundary != nil {
		c.SetStarterBoundary(*data.StarterBoundary)
	}
	if data.UseBuiltinPolicy != nil {
		c.SetUseBuiltinPolicy(*data.UseBuiltinPolicy)
	}
	for i, rule := range data.Rules {
		if rule.KFactor == nil {
			return nil, fmt.Errorf("ladder.policy: rule %d: k_factor is required",
				i+1)
		}
		c.AddRule(*rule.KFactor, rule.predicate())
	}

	return c, nil
}

// OpenPolicy loads the policy file at name.
func OpenPolicy(name string) (*elo.Configuration, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadPolicy(file)
}
