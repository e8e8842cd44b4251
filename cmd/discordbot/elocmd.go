/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/chesselo/elo"
	"github.com/mikeb26/chesselo/ladder"
)

type EloSubCommand string

const (
	EloHelpCmd     EloSubCommand = "help"
	EloExpectedCmd EloSubCommand = "expected"
	EloCalcCmd     EloSubCommand = "calc"
	EloKFactorCmd  EloSubCommand = "kfactor"
)

var eloSubCmdHdlrs = map[EloSubCommand]CmdHandler{
	EloHelpCmd:     eloHelpCmdHandler,
	EloExpectedCmd: eloExpectedCmdHandler,
	EloCalcCmd:     eloCalcCmdHandler,
	EloKFactorCmd:  eloKFactorCmdHandler,
}

func broadcastOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}
}

func ratingOption(name string, desc string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionNumber,
		Name:        name,
		Description: desc,
		Required:    true,
	}
}

func eloCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        string(EloCmd),
		Description: "Elo rating commands; try /elo help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(EloHelpCmd),
				Description: "Show usage for elo",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(EloExpectedCmd),
				Description: "Show the expected score against an opponent",
				Options: []*discordgo.ApplicationCommandOption{
					ratingOption("rating", "Your rating"),
					ratingOption("other", "Rating of your opponent"),
					broadcastOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(EloCalcCmd),
				Description: "Show your new rating after a game",
				Options: []*discordgo.ApplicationCommandOption{
					ratingOption("rating", "Your rating before the game"),
					ratingOption("other", "Rating of your opponent before the game"),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "result",
						Description: "Your result: 1-0, 0-1 or 1/2-1/2",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "k",
						Description: "Your K-factor (default is 15)",
						Required:    false,
					},
					broadcastOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(EloKFactorCmd),
				Description: "Show the K-factor a player is rated with",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "rating",
						Description: "Rating of the player",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "games",
						Description: "Number of games the player has played",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "pro",
						Description: "The player has reached the pro rating before (default is false)",
						Required:    false,
					},
					broadcastOption(),
				},
			},
		},
	}
}

func eloCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := eloHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := eloSubCmdHdlrs[EloSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newEphemeralResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

// subOptions returns the options passed to the subcommand keyed by name.
func subOptions(
	inter *discordgo.Interaction) map[string]*discordgo.ApplicationCommandInteractionDataOption {

	ret := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	data := inter.ApplicationCommandData()
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			ret[opt.Name] = opt
		}
	}
	return ret
}

func finish(resp *discordgo.InteractionResponse,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionResponse {

	if b, ok := opts["broadcast"]; ok && b.BoolValue() {
		resp.Data.Flags = 0
	}
	return resp
}

//go:embed help.md
var helpText string

func eloHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

func eloExpectedCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	opts := subOptions(inter)
	rating, ok1 := opts["rating"]
	other, ok2 := opts["other"]
	if !ok1 || !ok2 {
		resp.Data.Content = "Please provide both rating and other."
		return resp
	}

	r, o := rating.FloatValue(), other.FloatValue()
	resp.Data.Content = fmt.Sprintf("Expected score of %v against %v: %.4f",
		r, o, elo.ExpectedScore(r, o))
	return finish(resp, opts)
}

func eloCalcCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	opts := subOptions(inter)
	rating, ok1 := opts["rating"]
	other, ok2 := opts["other"]
	resultOpt, ok3 := opts["result"]
	if !ok1 || !ok2 || !ok3 {
		resp.Data.Content = "Please provide rating, other and result."
		return resp
	}

	result, err := ladder.ParseResult(resultOpt.StringValue())
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Invalid result: %v", err)
		return resp
	}
	k := float64(elo.DefaultKFactor)
	if kOpt, ok := opts["k"]; ok && kOpt.IntValue() > 0 {
		k = float64(kOpt.IntValue())
	}

	out, err := ladder.BuildRatingOutput(elo.Rating{
		OldRating:   rating.FloatValue(),
		OtherRating: other.FloatValue(),
		KFactor:     k,
		Result:      result,
	})
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Invalid result: %v", err)
		return resp
	}
	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(out))

	return finish(resp, opts)
}

func eloKFactorCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	opts := subOptions(inter)
	rating, ok1 := opts["rating"]
	games, ok2 := opts["games"]
	if !ok1 || !ok2 {
		resp.Data.Content = "Please provide both rating and games."
		return resp
	}
	pro := false
	if p, ok := opts["pro"]; ok {
		pro = p.BoolValue()
	}
	if games.IntValue() < 0 {
		resp.Data.Content = "games must not be negative."
		return resp
	}

	p := elo.NewPlayer(elo.PlayerOptions{
		Rating:      elo.Int(int(rating.IntValue())),
		GamesPlayed: elo.Int(int(games.IntValue())),
		Pro:         pro,
		Config:      botConfig,
	})
	resp.Data.Content = fmt.Sprintf("A player rated %v with %v games plays with K-factor %v",
		rating.IntValue(), games.IntValue(), p.KFactor())

	return finish(resp, opts)
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
