package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/aetherclaw/internal/config"
	"github.com/nextlevelbuilder/aetherclaw/internal/envfile"
)

func channelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List and manage messaging channels",
	}
	cmd.AddCommand(channelsListCmd())
	return cmd
}

type channelEntry struct {
	Name           string `json:"name"`
	Enabled        bool   `json:"enabled"`
	HasCredentials bool   `json:"hasCredentials"`
	ChatID         string `json:"chatId,omitempty"`
}

func channelsListCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured channels and their pairing status",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				cfg = config.Default()
			}

			binding, paired := envfile.Current()
			entries := []channelEntry{
				{
					Name:           "telegram",
					Enabled:        cfg.Channels.Telegram.Enabled,
					HasCredentials: paired,
					ChatID:         binding.ConversationID,
				},
			}

			if jsonOutput {
				data, _ := json.MarshalIndent(entries, "", "  ")
				fmt.Println(string(data))
				return
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "CHANNEL\tENABLED\tPAIRED\tCHAT\n")
			for _, e := range entries {
				status := "no"
				chat := "-"
				if e.HasCredentials {
					status = "yes"
					chat = e.ChatID
				}
				fmt.Fprintf(tw, "%s\t%v\t%s\t%s\n", e.Name, e.Enabled, status, chat)
			}
			tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
