package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/aetherclaw/internal/config"
	"github.com/nextlevelbuilder/aetherclaw/internal/envfile"
	"github.com/nextlevelbuilder/aetherclaw/internal/pairing"
	"github.com/nextlevelbuilder/aetherclaw/internal/telegram"
)

func onboardCmd() *cobra.Command {
	var envPath string
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Interactive setup — pair Aether-Claw with a Telegram bot",
		Run: func(cmd *cobra.Command, args []string) {
			if envPath == "" {
				envPath = config.DefaultEnvPath()
			}
			runTelegramOnboard(envPath)
		},
	}
	cmd.Flags().StringVar(&envPath, "env-file", "", "secrets file to write (default ~/.aetherclaw/.env)")
	return cmd
}

func runTelegramOnboard(envPath string) {
	// Ctrl-C unblocks a pending long poll instead of waiting it out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(titleStyle.Render("Aether-Claw — Telegram Bot Setup"))
	fmt.Println()
	fmt.Println("Connect Aether-Claw to Telegram for remote access:")
	fmt.Println("  • Chat with your agent from anywhere")
	fmt.Println("  • Receive notifications and updates")
	fmt.Println("  • Control your agent remotely")
	fmt.Println()

	proceed, err := promptConfirm("Set up a Telegram bot now?", true)
	if err != nil || !proceed {
		fmt.Println("Telegram setup skipped.")
		return
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("Step 1 · Create a bot with BotFather"))
	fmt.Println()
	fmt.Println("  1. Open Telegram and search for @BotFather")
	fmt.Println("  2. Send /newbot to BotFather")
	fmt.Println("  3. Choose a name for your bot (e.g. 'My Aether-Claw')")
	fmt.Println("  4. Choose a username ending in 'bot' (e.g. 'my_aetherclaw_bot')")
	fmt.Println("  5. BotFather replies with a token like 123456:ABC-DEF1234ghIkl...")
	fmt.Println()

	client, identity, token := promptAndVerifyToken(ctx)
	if client == nil {
		return
	}
	fmt.Printf("%s Bot verified: %s (@%s)\n", okStyle.Render("✓"), identity.DisplayName, identity.Handle)

	cfg := loadOrDefaultConfig()
	opts := pairing.Options{
		HandshakeDeadline: cfg.Pairing.HandshakeTimeout(),
		ChallengeDeadline: cfg.Pairing.ChallengeTimeout(),
		PollTimeout:       cfg.Pairing.PollTimeout(),
		IdleInterval:      cfg.Pairing.IdleInterval(),
	}
	flow := pairing.NewFlow(client, client, opts)

	fmt.Println()
	fmt.Println(titleStyle.Render("Step 2 · Pair your bot"))
	fmt.Println()
	fmt.Printf("  1. Open Telegram and search for @%s\n", identity.Handle)
	fmt.Println("  2. Click Start or send /start to your bot")
	fmt.Println()
	fmt.Printf("Waiting for /start... %s\n", dimStyle.Render(fmt.Sprintf("(timeout %s)", deadlineOrDefault(opts.HandshakeDeadline))))

	start, err := flow.WaitForStart(ctx)
	if err != nil {
		if errors.Is(err, pairing.ErrHandshakeTimeout) {
			fmt.Printf("%s Timeout: did not receive /start\n", errStyle.Render("✗"))
			fmt.Println("Make sure you sent /start to your bot, then re-run: aetherclaw onboard")
		} else {
			fmt.Println("Cancelled.")
		}
		return
	}
	fmt.Printf("%s Received /start from %s\n", okStyle.Render("✓"), start.SenderName)

	code, sendErr := flow.SendCode(ctx)
	if sendErr != nil {
		fmt.Printf("%s Could not deliver the code over Telegram (you can still type it from here)\n", warnStyle.Render("⚠"))
	} else {
		fmt.Printf("%s Sent pairing code to your bot\n", okStyle.Render("✓"))
	}
	fmt.Println()
	fmt.Printf("  Pairing code: %s\n", titleStyle.Render(code))
	fmt.Println("  Send this code to your bot in Telegram.")
	fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("(timeout %s)", deadlineOrDefault(opts.ChallengeDeadline))))
	fmt.Println()

	if err := flow.WaitForCode(ctx); err != nil {
		if errors.Is(err, pairing.ErrChallengeTimeout) {
			fmt.Printf("%s Pairing failed: code not received before timeout\n", errStyle.Render("✗"))
		} else {
			fmt.Println("Cancelled.")
		}
		return
	}
	fmt.Printf("%s Pairing code verified!\n", okStyle.Render("✓"))

	flow.SendConfirmation(ctx)

	binding := envfile.Binding{Token: token, ConversationID: start.ConversationID}
	if err := envfile.Save(envPath, binding); err != nil {
		// The only path that echoes raw secrets: without it the operator
		// would lose a fully confirmed pairing.
		fmt.Printf("%s Error saving credentials: %v\n", errStyle.Render("✗"), err)
		fmt.Println("Set them manually:")
		fmt.Printf("  export %s='%s'\n", envfile.KeyBotToken, binding.Token)
		fmt.Printf("  export %s='%s'\n", envfile.KeyChatID, binding.ConversationID)
		return
	}
	envfile.Apply(binding)
	markTelegramEnabled(cfg)

	fmt.Println()
	fmt.Printf("%s Credentials saved to %s\n", okStyle.Render("✓"), envPath)
	fmt.Printf("%s Bot: @%s\n", okStyle.Render("✓"), identity.Handle)
	fmt.Printf("%s Chat ID: %s\n", okStyle.Render("✓"), start.ConversationID)
	fmt.Println()
	fmt.Println(dimStyle.Render("Check channel status with: aetherclaw channels list"))
}

// promptAndVerifyToken loops until a token verifies or the operator gives
// up. Verification is one getMe round trip per attempt; retry is always an
// explicit operator choice.
func promptAndVerifyToken(ctx context.Context) (*telegram.Client, telegram.BotIdentity, string) {
	for {
		token, err := promptPassword("Telegram Bot Token", "Get from @BotFather on Telegram")
		if err != nil {
			fmt.Println("Cancelled.")
			return nil, telegram.BotIdentity{}, ""
		}
		if token == "" {
			fmt.Printf("%s Token cannot be empty\n", warnStyle.Render("⚠"))
			continue
		}

		fmt.Println("Verifying token...")
		client, err := telegram.NewClient(token)
		var identity telegram.BotIdentity
		if err == nil {
			identity, err = client.VerifyToken(ctx)
		}
		if err == nil {
			return client, identity, token
		}

		fmt.Printf("%s Invalid token. Please check and try again.\n", errStyle.Render("✗"))
		retry, perr := promptConfirm("Try again with a different token?", true)
		if perr != nil || !retry {
			return nil, telegram.BotIdentity{}, ""
		}
	}
}

func loadOrDefaultConfig() *config.Config {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return config.Default()
	}
	return cfg
}

func markTelegramEnabled(cfg *config.Config) {
	cfg.Channels.Telegram.Enabled = true
	if err := config.Save(resolveConfigPath(), cfg); err != nil {
		fmt.Printf("%s Could not update config: %v\n", warnStyle.Render("⚠"), err)
	}
}

func deadlineOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return pairing.DefaultPhaseDeadline
	}
	return d
}
