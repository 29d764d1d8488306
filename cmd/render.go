package cmd

import (
	"github.com/grovetools/agentchat/internal/chat"
	"github.com/grovetools/agentchat/internal/display"
	"github.com/grovetools/core/logging"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var noTyping bool
	var fetchAudio bool
	var kindFilter []string
	var summary bool

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a chat event stream",
		Long:  "Render every chat event in a JSONL file, or stdin when no file or '-' is given. Malformed lines are skipped.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.NewLogger("agchat.cmd.render")

			kinds, err := parseKinds(kindFilter)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			events, source, err := readEvents(cmd, args)
			if err != nil {
				return err
			}
			events = filterEvents(events, kinds)

			if summary {
				display.PrintKindSummary(display.SummarizeKinds(events), cmd.OutOrStdout())
				return nil
			}

			renderer, err := newRenderer(ctx, cmd.OutOrStdout(), cfg, renderOptions{
				animate:    !noTyping,
				fetchAudio: fetchAudio,
			})
			if err != nil {
				return err
			}

			classifier := chat.NewClassifier()
			decisions := make([]chat.Decision, 0, len(events))
			for _, event := range events {
				decisions = append(decisions, classifier.Classify(event))
			}
			if err := renderer.RenderAll(ctx, decisions); err != nil {
				return err
			}

			logger.WithField("source", source).WithField("event_count", len(events)).Debug("Rendered chat events")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noTyping, "no-typing", false, "Print animated events at once")
	cmd.Flags().BoolVar(&fetchAudio, "fetch-audio", false, "Download agent message audio and print its local path")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a per-kind event count table instead of rendering")
	cmd.Flags().StringSliceVarP(&kindFilter, "kind", "k", nil, "Only render events of these kinds (e.g. AgentJSON,AgentWarning)")

	return cmd
}
