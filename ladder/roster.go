/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ladder

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/chesselo/elo"
	"github.com/mikeb26/chesselo/internal"
)

// RosterEntry is a player's starting state as published on a roster page.
type RosterEntry struct {
	Name        string
	Rating      *int
	GamesPlayed *int
	Pro         bool
}

// Options converts the entry into options for elo.NewPlayer.
func (e RosterEntry) Options(config *elo.Configuration) elo.PlayerOptions {
	return elo.PlayerOptions{
		Name:        e.Name,
		Rating:      e.Rating,
		GamesPlayed: e.GamesPlayed,
		Pro:         e.Pro,
		Config:      config,
	}
}

// ParseRoster extracts players from every table in doc whose header has a
// "Name" column. "Rating", "Games" and "Pro" columns are optional; empty
// or unparseable cells leave the field unset, so the player falls back to
// the configured defaults.
func ParseRoster(doc *goquery.Document) ([]RosterEntry, error) {
	var entries []RosterEntry

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cols := rosterColumns(table)
		nameIdx, ok := cols["name"]
		if !ok {
			return
		}

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= nameIdx {
				return
			}
			name := internal.NormalizeName(cells.Eq(nameIdx).Text())
			if name == "" {
				return
			}

			e := RosterEntry{Name: name}
			if idx, ok := cols["rating"]; ok && idx < cells.Length() {
				e.Rating = parseCellInt(cells.Eq(idx).Text())
			}
			if idx, ok := cols["games"]; ok && idx < cells.Length() {
				e.GamesPlayed = parseCellInt(cells.Eq(idx).Text())
			}
			if idx, ok := cols["pro"]; ok && idx < cells.Length() {
				e.Pro = parseCellBool(cells.Eq(idx).Text())
			}
			entries = append(entries, e)
		})
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("ladder.roster: no roster table found")
	}
	return entries, nil
}

// rosterColumns maps lower cased header names to column indexes.
func rosterColumns(table *goquery.Selection) map[string]int {
	cols := make(map[string]int)
	table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		switch strings.ToLower(strings.TrimSpace(th.Text())) {
		case "name", "player":
			cols["name"] = i
		case "rating", "elo":
			cols["rating"] = i
		case "games", "games played":
			cols["games"] = i
		case "pro":
			cols["pro"] = i
		}
	})
	return cols
}

func parseCellInt(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}

func parseCellBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1", "x", "✓":
		return true
	}
	return false
}

// FetchRoster retrieves and parses the roster page at url.
func FetchRoster(ctx context.Context, client *http.Client,
	url string) ([]RosterEntry, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch roster (new): %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch roster (do): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to parse roster %v: %w", url, err)
	}
	return ParseRoster(doc)
}

// LoadRosters fetches several roster pages concurrently. Entries keep the
// order of urls; a player listed on more than one page takes the entry
// from the later page.
func LoadRosters(ctx context.Context, client *http.Client,
	urls []string) ([]RosterEntry, error) {

	pages := make([][]RosterEntry, len(urls))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			entries, err := FetchRoster(ctx, client, url)
			if err != nil {
				return fmt.Errorf("error fetching roster %v: %w", url, err)
			}
			mu.Lock()
			pages[i] = entries
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ret []RosterEntry
	seen := make(map[string]int)
	for _, page := range pages {
		for _, e := range page {
			if idx, ok := seen[e.Name]; ok {
				ret[idx] = e
				continue
			}
			seen[e.Name] = len(ret)
			ret = append(ret, e)
		}
	}
	return ret, nil
}
