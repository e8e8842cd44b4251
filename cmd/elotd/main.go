/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/mikeb26/chesselo/elo"
	"github.com/mikeb26/chesselo/internal"
	"github.com/mikeb26/chesselo/ladder"
	"github.com/mikeb26/chesselo/s3store"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":     handleHelp,
	"expected": handleExpected,
	"calc":     handleCalc,
	"kfactor":  handleKFactor,
	"replay":   handleReplay,
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// stringList collects the values of a repeatable flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func requireFlags(fs *flag.FlagSet, names ...string) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	for _, n := range names {
		if !set[n] {
			fmt.Fprintf(os.Stderr, "Please provide --%v.\n", n)
			fs.Usage()
			os.Exit(1)
		}
	}
}

func handleExpected(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("expected", flag.ExitOnError)
	rating := fs.Float64("rating", 0, "Rating of the player")
	other := fs.Float64("other", 0, "Rating of the opponent")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireFlags(fs, "rating", "other")

	fmt.Print(buildExpectedOutput(*rating, *other))
}

func buildExpectedOutput(rating float64, other float64) string {
	return fmt.Sprintf("Expected score of %v against %v: %.4f\n", rating,
		other, elo.ExpectedScore(rating, other))
}

func handleCalc(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("calc", flag.ExitOnError)
	rating := fs.Float64("rating", 0, "Rating of the player before the game")
	other := fs.Float64("other", 0, "Rating of the opponent before the game")
	k := fs.Float64("k", elo.DefaultKFactor, "K-factor of the player")
	result := fs.String("result", "", "Result of the game for the player")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireFlags(fs, "rating", "other", "result")

	out, err := buildCalcOutput(*rating, *other, *k, *result)
	if err != nil {
		log.Fatalf("Error calculating rating: %v", err)
	}
	fmt.Print(out)
}

func buildCalcOutput(rating float64, other float64, k float64,
	resultText string) (string, error) {

	result, err := ladder.ParseResult(resultText)
	if err != nil {
		return "", err
	}
	return ladder.BuildRatingOutput(elo.Rating{
		OldRating:   rating,
		OtherRating: other,
		KFactor:     k,
		Result:      result,
	})
}

func handleKFactor(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("kfactor", flag.ExitOnError)
	rating := fs.Int("rating", elo.DefaultRating, "Rating of the player")
	games := fs.Int("games", 0, "Number of games the player has played")
	pro := fs.Bool("pro", false, "The player has reached the pro rating before")
	policyFile := fs.String("policy", "", "TOML rating policy")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	config := elo.NewConfiguration()
	if *policyFile != "" {
		var err error
		config, err = ladder.OpenPolicy(*policyFile)
		if err != nil {
			log.Fatalf("Error loading policy: %v", err)
		}
	}

	fmt.Print(buildKFactorOutput(config, *rating, *games, *pro))
}

func buildKFactorOutput(config *elo.Configuration, rating int, games int,
	pro bool) string {

	p := elo.NewPlayer(elo.PlayerOptions{
		Rating:      elo.Int(rating),
		GamesPlayed: elo.Int(games),
		Pro:         pro,
		Config:      config,
	})
	v := p.View()

	var notes []string
	if v.Pro {
		notes = append(notes, "pro")
	} else if v.ProRating {
		notes = append(notes, "pro rating")
	}
	if v.Starter {
		notes = append(notes, "starter")
	}
	if len(notes) == 0 {
		return fmt.Sprintf("K-factor: %v\n", p.KFactor())
	}
	return fmt.Sprintf("K-factor: %v (%v)\n", p.KFactor(),
		strings.Join(notes, ", "))
}

func handleReplay(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	logFile := fs.String("log", "", "Match log to replay")
	policyFile := fs.String("policy", "", "TOML rating policy")
	var rosters stringList
	fs.Var(&rosters, "roster", "Roster page with initial ratings (repeatable)")
	bucket := fs.String("bucket", "", "S3 bucket to save players and games into")
	prefix := fs.String("prefix", "elo/", "Object prefix within the bucket")
	resume := fs.Bool("resume", false,
		"Restore players saved in the bucket before replaying")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *logFile == "" {
		fmt.Fprintln(os.Stderr, "Please provide a match log via --log.")
		fs.Usage()
		os.Exit(1)
	}

	config := elo.NewConfiguration()
	if *policyFile != "" {
		var err error
		config, err = ladder.OpenPolicy(*policyFile)
		if err != nil {
			log.Fatalf("Error loading policy: %v", err)
		}
	}
	lad := ladder.New(config)

	var cache httpcache.Cache
	if *bucket != "" {
		store := s3store.New(ctx, *bucket, *prefix, true, true)
		if err := store.Init(); err != nil {
			log.Printf("elotd.replay: continuing without %v: %v", *bucket, err)
		} else {
			cache = store
			config.SetPersister(store)
			if *resume {
				lad.SetLoader(store)
			}
		}
	}

	if len(rosters) > 0 {
		client := internal.NewCachedHttpClient(cache, time.Hour)
		entries, err := ladder.LoadRosters(ctx, client, rosters)
		if err != nil {
			log.Fatalf("Error loading rosters: %v", err)
		}
		lad.Seed(entries)
	}

	f, err := os.Open(*logFile)
	if err != nil {
		log.Fatalf("Error opening match log: %v", err)
	}
	defer f.Close()

	matches, err := ladder.ParseMatchLog(f)
	if err != nil {
		log.Fatalf("Error reading match log: %v", err)
	}
	games, err := lad.Replay(matches)
	if err != nil {
		log.Printf("elotd.replay: stopped after %v of %v matches: %v",
			len(games), len(matches), err)
	}

	fmt.Print(ladder.BuildStandingsOutput(lad.Standings()))
}
