/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ladder

import (
	"fmt"
	"sort"
	"strings"
)

// Standing is one row of the ladder.
type Standing struct {
	Place       int
	Name        string
	Rating      int
	GamesPlayed int
	KFactor     int
	Pro         bool
}

// Standings ranks players by rating, highest first. Players with equal
// ratings share a place and are listed by name.
func (l *Ladder) Standings() []Standing {
	players := l.Players()
	ret := make([]Standing, 0, len(players))
	for _, p := range players {
		ret = append(ret, Standing{
			Name:        p.Name(),
			Rating:      p.Rating(),
			GamesPlayed: p.GamesPlayed(),
			KFactor:     p.KFactor(),
			Pro:         p.IsPro(),
		})
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Rating != ret[j].Rating {
			return ret[i].Rating > ret[j].Rating
		}
		return ret[i].Name < ret[j].Name
	})
	for i := range ret {
		if i > 0 && ret[i].Rating == ret[i-1].Rating {
			ret[i].Place = ret[i-1].Place
		} else {
			ret[i].Place = i + 1
		}
	}

	return ret
}

// BuildStandingsOutput formats standings into an aligned table. A place is
// only printed for the first of a group of tied players.
func BuildStandingsOutput(standings []Standing) string {
	if len(standings) == 0 {
		return "No games have been recorded\n"
	}

	type row struct{ place, name, rating, games, k string }
	var rows []row
	for i, s := range standings {
		place := ""
		if i == 0 || s.Place != standings[i-1].Place {
			place = fmt.Sprintf("%v.", s.Place)
		}
		rating := fmt.Sprintf("%v", s.Rating)
		if s.Pro {
			rating += "*"
		}
		rows = append(rows, row{
			place:  place,
			name:   s.Name,
			rating: rating,
			games:  fmt.Sprintf("%v", s.GamesPlayed),
			k:      fmt.Sprintf("%v", s.KFactor),
		})
	}

	// Compute column widths
	maxP, maxN, maxR, maxG := len("Place"), len("Name"), len("Rating"), len("Games")
	for _, r := range rows {
		if l := len(r.place); l > maxP {
			maxP = l
		}
		if l := len([]rune(r.name)); l > maxN {
			maxN = l
		}
		if l := len(r.rating); l > maxR {
			maxR = l
		}
		if l := len(r.games); l > maxG {
			maxG = l
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s\n", maxP, "Place",
		maxN, "Name", maxR, "Rating", maxG, "Games", "K"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s\n", maxP, r.place,
			maxN, r.name, maxR, r.rating, maxG, r.games, r.k))
	}

	return sb.String()
}
