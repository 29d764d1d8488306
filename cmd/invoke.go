package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/grovetools/agentchat/internal/chat"
	"github.com/grovetools/agentchat/internal/graphql"
	"github.com/spf13/cobra"
)

var errNoEndpoint = errors.New("no GraphQL endpoint configured; set graphql.endpoint or pass --endpoint")

func newInvokeCmd() *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "invoke <file> [index]",
		Short: "Send a GraphQL query from a chat log and render the result",
		Long: `Find the AgentGraphQLQuery event at the given index (0 by default) in a
JSONL chat log, render it, send it to the configured endpoint and render the
outcome. A failed request renders as a user error.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			index := 0
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n < 0 {
					return fmt.Errorf("invalid query index %q", args[1])
				}
				index = n
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if endpoint != "" {
				cfg.GraphQL.Endpoint = endpoint
			}
			if cfg.GraphQL.Endpoint == "" {
				return errNoEndpoint
			}

			events, source, err := readEvents(cmd, args[:1])
			if err != nil {
				return err
			}
			queries := filterEvents(events, []chat.Kind{chat.KindAgentGraphQLQuery})
			if index >= len(queries) {
				return fmt.Errorf("%s has %d GraphQL queries, no query at index %d", source, len(queries), index)
			}

			renderer, err := newRenderer(ctx, cmd.OutOrStdout(), cfg, renderOptions{})
			if err != nil {
				return err
			}

			var renderErr error
			classifier := chat.NewClassifier()
			client := graphql.NewClient(cfg.GraphQL.Endpoint, cfg.GraphQL.APIKey, cfg.GraphQL.Timeout)
			sink := func(result chat.Event) {
				renderErr = renderer.Render(ctx, classifier.Classify(result))
			}
			invoking := chat.NewClassifier(chat.WithQueryInvoker(graphql.NewInvoker(client).Func(ctx, sink)))

			decision := invoking.Classify(queries[index])
			if err := renderer.Render(ctx, decision); err != nil {
				return err
			}
			decision.Invoke()
			return renderErr
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "GraphQL endpoint URL (overrides config)")

	return cmd
}
