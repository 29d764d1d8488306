package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/grovetools/agentchat/internal/chat"
	"github.com/grovetools/core/logging"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	var showStep bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "normalize [text]",
		Short: "Recover and pretty-print JSON from agent text",
		Long:  "Apply the agent text normalizer to the argument, or to stdin when no argument or '-' is given. Text that is not JSON is printed unwrapped but otherwise unchanged.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger("agchat.cmd.normalize")

			var raw string
			if len(args) == 1 && args[0] != stdinArg {
				raw = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				// Shells and editors leave a trailing newline on piped input.
				raw = strings.TrimSuffix(string(data), "\n")
			}

			result := chat.NormalizeDetailed(raw)
			logger.WithField("step", result.Step).WithField("structured", result.Structured()).Debug("Normalized text")

			out := cmd.OutOrStdout()
			if jsonOutput {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal result: %w", err)
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			if showStep {
				if _, err := fmt.Fprintf(out, "[%s]\n", result.Step); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintln(out, result.Text)
			return err
		},
	}

	cmd.Flags().BoolVar(&showStep, "step", false, "Print which normalization step produced the output")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the text and step as JSON")

	return cmd
}
