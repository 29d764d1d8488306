package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/grovetools/agentchat/internal/chat"
	grovelogging "github.com/grovetools/core/logging"
	"github.com/spf13/cobra"
)

var ulogTail = grovelogging.NewUnifiedLogger("agchat.cmd.tail")

func newTailCmd() *cobra.Command {
	var fromStart bool
	var pollInterval time.Duration

	cmd := &cobra.Command{
		Use:   "tail <file>",
		Short: "Follow a chat event log and render new events",
		Long:  "Follow a JSONL chat event log as it grows and render each new event. Stops on interrupt or when the file disappears.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			if pollInterval <= 0 {
				return fmt.Errorf("--poll must be positive, got %s", pollInterval)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to open event log: %w", err)
			}

			var offset int64
			if !fromStart {
				offset = info.Size()
			}

			renderer, err := newRenderer(ctx, cmd.OutOrStdout(), cfg, renderOptions{animate: true})
			if err != nil {
				return err
			}

			ulogTail.Info("Tailing chat events").
				Field("path", path).
				Field("offset", offset).
				Pretty(fmt.Sprintf("Following %s (Ctrl+C to stop)\n\n", path)).
				PrettyOnly().
				Emit()

			reader := chat.NewReader()
			classifier := chat.NewClassifier()
			ticker := time.NewTicker(pollInterval)
			defer ticker.Stop()

			for {
				events, next, err := reader.ReadFileFromOffset(path, offset)
				if err != nil {
					if _, statErr := os.Stat(path); statErr != nil {
						return fmt.Errorf("event log no longer accessible: %w", statErr)
					}
					return err
				}
				offset = next

				for _, event := range events {
					if err := renderer.Render(ctx, classifier.Classify(event)); err != nil {
						return err
					}
				}

				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().BoolVar(&fromStart, "from-start", false, "Render events already in the file before following")
	cmd.Flags().DurationVar(&pollInterval, "poll", 500*time.Millisecond, "How often to check the file for new events")

	return cmd
}
