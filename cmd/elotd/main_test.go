/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"errors"
	"flag"
	"testing"

	"github.com/mikeb26/chesselo/elo"
)

func TestBuildExpectedOutput(t *testing.T) {
	got := buildExpectedOutput(1500, 1500)
	want := "Expected score of 1500 against 1500: 0.5000\n"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestBuildCalcOutput(t *testing.T) {
	tests := []struct {
		result string
		want   string
	}{
		{"1-0", "Expected score: 0.6401\nRating change:  +3.60\nNew rating:     2003\n"},
		{"0-1", "Expected score: 0.6401\nRating change:  -6.40\nNew rating:     1993\n"},
		{"1/2-1/2", "Expected score: 0.6401\nRating change:  -1.40\nNew rating:     1998\n"},
	}
	for _, tc := range tests {
		got, err := buildCalcOutput(2000, 1900, 10, tc.result)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", tc.result, err)
		}
		if got != tc.want {
			t.Errorf("%v: got %q want %q", tc.result, got, tc.want)
		}
	}

	if _, err := buildCalcOutput(2000, 1900, 10, "2"); !errors.Is(err, elo.ErrInvalidResult) {
		t.Errorf("expected ErrInvalidResult; got %v", err)
	}
	if _, err := buildCalcOutput(2000, 1900, 10, "white"); err == nil {
		t.Errorf("expected an error for an unknown result")
	}
}

func TestBuildKFactorOutput(t *testing.T) {
	tests := []struct {
		rating int
		games  int
		pro    bool
		want   string
	}{
		{2450, 100, false, "K-factor: 10 (pro rating)\n"},
		{2100, 100, true, "K-factor: 10 (pro)\n"},
		{1500, 5, false, "K-factor: 25 (starter)\n"},
		{1500, 100, false, "K-factor: 15\n"},
	}
	for _, tc := range tests {
		got := buildKFactorOutput(elo.NewConfiguration(), tc.rating, tc.games,
			tc.pro)
		if got != tc.want {
			t.Errorf("%v/%v/%v: got %q want %q", tc.rating, tc.games, tc.pro,
				got, tc.want)
		}
	}
}

func TestStringList(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var rosters stringList
	fs.Var(&rosters, "roster", "")
	err := fs.Parse([]string{"--roster", "a", "--roster", "b"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rosters) != 2 || rosters.String() != "a,b" {
		t.Errorf("got %v", rosters)
	}
}

func TestCommands(t *testing.T) {
	for _, name := range []string{"help", "expected", "calc", "kfactor", "replay"} {
		if _, ok := commands[name]; !ok {
			t.Errorf("missing command %v", name)
		}
	}
	if helpText == "" {
		t.Errorf("help text is empty")
	}
}
