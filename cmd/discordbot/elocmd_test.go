/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// newEloInteraction constructs a fake interaction for /elo <sub> <opts>
func newEloInteraction(sub string,
	opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {

	return &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: string(EloCmd),
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{
					Name:    sub,
					Type:    discordgo.ApplicationCommandOptionSubCommand,
					Options: opts,
				},
			},
		},
	}
}

func numberOpt(name string, v float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionNumber,
		Value: v,
	}
}

func intOpt(name string, v int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(v),
	}
}

func stringOpt(name string, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: v,
	}
}

func boolOpt(name string, v bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionBoolean,
		Value: v,
	}
}

func TestEloHelpCmdHandler(t *testing.T) {
	resp := eloCmdHandler(context.Background(), newEloInteraction("help"))
	if resp == nil || resp.Data == nil {
		t.Fatal("Expected non-nil response")
	}
	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Errorf("Expected response type %v, got %v",
			discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	}
	if !strings.Contains(resp.Data.Content, "/elo calc") {
		t.Errorf("Unexpected help content: %v", resp.Data.Content)
	}
	if resp.Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Errorf("Expected help to be ephemeral")
	}
}

func TestEloExpectedCmdHandler(t *testing.T) {
	inter := newEloInteraction("expected", numberOpt("rating", 1500),
		numberOpt("other", 1500), boolOpt("broadcast", true))

	resp := eloCmdHandler(context.Background(), inter)
	if resp.Data.Content != "Expected score of 1500 against 1500: 0.5000" {
		t.Errorf("Unexpected content: %q", resp.Data.Content)
	}
	if resp.Data.Flags != 0 {
		t.Errorf("Expected a broadcast response; flags %v", resp.Data.Flags)
	}

	resp = eloCmdHandler(context.Background(),
		newEloInteraction("expected", numberOpt("rating", 1500)))
	if !strings.Contains(resp.Data.Content, "Please provide") {
		t.Errorf("Unexpected content: %q", resp.Data.Content)
	}
}

func TestEloCalcCmdHandler(t *testing.T) {
	inter := newEloInteraction("calc", numberOpt("rating", 2000),
		numberOpt("other", 1900), stringOpt("result", "1-0"), intOpt("k", 10))

	resp := eloCmdHandler(context.Background(), inter)
	if !strings.Contains(resp.Data.Content, "New rating:     2003") {
		t.Errorf("Unexpected content: %q", resp.Data.Content)
	}
	if resp.Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Errorf("Expected an ephemeral response")
	}

	// default K-factor of 15
	inter = newEloInteraction("calc", numberOpt("rating", 2000),
		numberOpt("other", 1900), stringOpt("result", "0-1"))
	resp = eloCmdHandler(context.Background(), inter)
	if !strings.Contains(resp.Data.Content, "New rating:     1990") {
		t.Errorf("Unexpected content: %q", resp.Data.Content)
	}

	inter = newEloInteraction("calc", numberOpt("rating", 2000),
		numberOpt("other", 1900), stringOpt("result", "3"))
	resp = eloCmdHandler(context.Background(), inter)
	if !strings.HasPrefix(resp.Data.Content, "Invalid result") {
		t.Errorf("Unexpected content: %q", resp.Data.Content)
	}
}

func TestEloKFactorCmdHandler(t *testing.T) {
	tests := []struct {
		opts []*discordgo.ApplicationCommandInteractionDataOption
		want string
	}{
		{
			[]*discordgo.ApplicationCommandInteractionDataOption{
				intOpt("rating", 2450), intOpt("games", 100)},
			"K-factor 10",
		},
		{
			[]*discordgo.ApplicationCommandInteractionDataOption{
				intOpt("rating", 2100), intOpt("games", 100), boolOpt("pro", true)},
			"K-factor 10",
		},
		{
			[]*discordgo.ApplicationCommandInteractionDataOption{
				intOpt("rating", 1200), intOpt("games", 3)},
			"K-factor 25",
		},
		{
			[]*discordgo.ApplicationCommandInteractionDataOption{
				intOpt("rating", 1800), intOpt("games", 300)},
			"K-factor 15",
		},
	}
	for _, tc := range tests {
		resp := eloCmdHandler(context.Background(),
			newEloInteraction("kfactor", tc.opts...))
		if !strings.HasSuffix(resp.Data.Content, tc.want) {
			t.Errorf("Unexpected content: %q; want suffix %q",
				resp.Data.Content, tc.want)
		}
	}
}

func TestDispatchInteraction(t *testing.T) {
	ctx := context.Background()

	resp := dispatchInteraction(ctx,
		&discordgo.Interaction{Type: discordgo.InteractionPing})
	if resp == nil || resp.Type != discordgo.InteractionResponsePong {
		t.Fatalf("Expected pong; got %v", resp)
	}

	resp = dispatchInteraction(ctx, &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "td"},
	})
	if resp == nil || !strings.Contains(resp.Data.Content, "unknown command") {
		t.Fatalf("Expected unknown command response; got %v", resp)
	}

	resp = dispatchInteraction(ctx, newEloInteraction("help"))
	if resp == nil || resp.Data.Content == "" {
		t.Fatalf("Expected help response")
	}

	if dispatchInteraction(ctx, &discordgo.Interaction{
		Type: discordgo.InteractionModalSubmit}) != nil {
		t.Fatalf("Expected nil for an unhandled interaction type")
	}
}

func TestCmdRegistrationHash(t *testing.T) {
	h1 := cmdRegistrationHash(eloCommand())
	h2 := cmdRegistrationHash(eloCommand())
	if h1 != h2 || len(h1) != 64 {
		t.Errorf("Unstable or malformed hash: %v %v", h1, h2)
	}
}

func TestTruncateContent(t *testing.T) {
	long := strings.Repeat("x", 3000)
	got := truncateContent(long)
	if len([]rune(got)) != 1988+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("Unexpected truncation length %v", len(got))
	}
	if truncateContent("short") != "short" {
		t.Errorf("Short content should be unchanged")
	}
}
