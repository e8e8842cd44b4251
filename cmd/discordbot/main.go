/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/mikeb26/chesselo/elo"
	"github.com/mikeb26/chesselo/ladder"
)

var botPrivToken string
var botPubKey ed25519.PublicKey
var botAppId string

// id of the registered /elo command; empty until the first registration
var eloCmdId string

// sha256 of the last registered /elo command definition
var lastCmdUpdateHash string

var client *discordgo.Session

// botConfig is the rating policy used by /elo kfactor.
var botConfig = elo.Default()

type TopLevelCommand string

const (
	EloCmd TopLevelCommand = "elo"
)

type CmdHandler func(ctx context.Context,
	i *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	EloCmd: eloCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Printf("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, body)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := dispatchInteraction(r.Context(), &inter)
	if resp == nil {
		log.Printf("discordbot.int: unimplemented interation type %v: inter:%v",
			inter.Type, inter)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("discordbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_, err = w.Write(rawResp)
	if err != nil {
		log.Printf("discordbot.int: failed to write resp: err:%v", err)
	}
}

// dispatchInteraction returns nil for interaction types the bot does not
// handle.
func dispatchInteraction(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	switch inter.Type {
	case discordgo.InteractionPing:
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponsePong,
		}
	case discordgo.InteractionApplicationCommand:
		name := inter.ApplicationCommandData().Name
		hdlr, ok := topLevelCmdHdlrs[TopLevelCommand(name)]
		if !ok {
			return &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: fmt.Sprintf("unknown command '%v'", name),
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			}
		}
		return hdlr(ctx, inter)
	}

	return nil
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

// loadCredentials reads the bot's settings from the environment, after
// merging in a .env file from the working directory when one exists.
func loadCredentials() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("discordbot.init: Failed to load .env: %v", err)
	}

	botPrivToken = os.Getenv("DISCORD_BOT_TOKEN")
	botAppId = os.Getenv("DISCORD_APP_ID")
	eloCmdId = os.Getenv("DISCORD_ELO_CMD_ID")
	lastCmdUpdateHash = os.Getenv("DISCORD_ELO_CMD_HASH")
	if botPrivToken == "" || botAppId == "" {
		log.Fatalf("discordbot.init: DISCORD_BOT_TOKEN and DISCORD_APP_ID must be set")
	}

	pubKeyBytes, err := hex.DecodeString(os.Getenv("DISCORD_PUBLIC_KEY"))
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		log.Fatalf("discordbot.init: Failed to parse public key: %v", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	if policyFile := os.Getenv("ELO_POLICY"); policyFile != "" {
		botConfig, err = ladder.OpenPolicy(policyFile)
		if err != nil {
			log.Fatalf("discordbot.init: Failed to load policy: %v", err)
		}
	}

	client, err = discordgo.New("Bot " + botPrivToken)
	if err != nil {
		log.Fatalf("dicordbot.init: Failed to initialize discord client: %v", err)
	}
}

func cmdRegistrationHash(cmd *discordgo.ApplicationCommand) string {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		log.Fatalf("discordbot.reg: failed to marshal cmd: %v", err)
	}
	hasher := sha256.New()
	hasher.Write(cmdJson)
	return hex.EncodeToString(hasher.Sum(nil))
}

func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand) bool {
	hexString := cmdRegistrationHash(cmd)
	shouldUpdate := (hexString != lastCmdUpdateHash)

	if shouldUpdate {
		log.Printf("discordbot.reg: updating cmd reg; please set DISCORD_ELO_CMD_HASH to %v",
			hexString)
	}

	return shouldUpdate
}

func registerSlashCommands() {
	eloCmd := eloCommand()

	if eloCmdId == "" {
		cmd, err := client.ApplicationCommandCreate(botAppId, "", eloCmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to register %v: %v", eloCmd.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: registered %v(cmdID:%v); please set DISCORD_ELO_CMD_ID",
			cmd.Name, cmd.ID)
	} else if shouldUpdateCmdRegistration(eloCmd) {
		cmd, err := client.ApplicationCommandEdit(botAppId, "", eloCmdId, eloCmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to update %v: %v", eloCmd.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: updated %v(cmdID:%v)", cmd.Name, cmd.ID)
	}
}

func main() {
	loadCredentials()
	go registerSlashCommands()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v:8080", hostname)

	http.HandleFunc("/DiscordBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}
