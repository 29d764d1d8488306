package cmd

import (
	"fmt"

	"github.com/grovetools/core/logging"
	"github.com/spf13/cobra"
)

func newAudioCmd() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "audio <url>",
		Short: "Download an agent message's audio file",
		Long:  "Resolve an audio file reference against the configured storage origin, download it into the local cache and print the playable path.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.NewLogger("agchat.cmd.audio")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if region != "" {
				cfg.Audio.Region = region
			}

			fetcher, err := newAudioFetcher(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to set up audio fetching: %w", err)
			}

			local, err := fetcher.Fetch(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch audio: %w", err)
			}

			logger.WithField("ref", args[0]).WithField("path", local).Debug("Audio file ready")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), local)
			return err
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "AWS region of the audio bucket (overrides config)")

	return cmd
}
