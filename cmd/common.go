package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	agchat_config "github.com/grovetools/agentchat/config"
	"github.com/grovetools/agentchat/internal/audio"
	"github.com/grovetools/agentchat/internal/chat"
	"github.com/grovetools/agentchat/internal/display"
	"github.com/grovetools/agentchat/internal/formatters"
	"github.com/spf13/cobra"
)

const stdinArg = "-"

func loadConfig(cmd *cobra.Command) (agchat_config.Config, error) {
	path, _ := cmd.Flags().GetString("config-file")
	cfg, err := agchat_config.Load(path)
	if err != nil {
		return agchat_config.Config{}, err
	}
	return cfg, nil
}

// readSource returns the contents named by args: a file path, or stdin when
// args is empty or "-".
func readSource(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == stdinArg {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}
	file, err := os.Open(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to open event stream: %w", err)
	}
	return file, args[0], nil
}

func readEvents(cmd *cobra.Command, args []string) ([]chat.Event, string, error) {
	src, name, err := readSource(cmd, args)
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	events, err := chat.NewReader().ReadEvents(src)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read events from %s: %w", name, err)
	}
	return events, name, nil
}

// parseKinds validates a --kind filter. An empty filter keeps everything.
func parseKinds(names []string) ([]chat.Kind, error) {
	kinds := make([]chat.Kind, 0, len(names))
	for _, name := range names {
		kind := chat.Kind(name)
		if !slices.Contains(chat.Kinds, kind) {
			return nil, fmt.Errorf("%w: %q", chat.ErrUnknownKind, name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func filterEvents(events []chat.Event, kinds []chat.Kind) []chat.Event {
	if len(kinds) == 0 {
		return events
	}
	var filtered []chat.Event
	for _, e := range events {
		if slices.Contains(kinds, e.Kind()) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func newAudioFetcher(ctx context.Context, cfg agchat_config.Config) (*audio.Fetcher, error) {
	getter, err := audio.NewS3Getter(ctx, cfg.Audio.Region)
	if err != nil {
		return nil, err
	}
	return audio.NewFetcher(getter, audio.Options{
		Origin:   cfg.Audio.Origin,
		Bucket:   cfg.Audio.Bucket,
		CacheDir: cfg.Audio.CacheDir,
		Timeout:  cfg.Audio.Timeout,
	})
}

type renderOptions struct {
	animate    bool
	fetchAudio bool
}

func newRenderer(ctx context.Context, out io.Writer, cfg agchat_config.Config, opts renderOptions) (*display.Renderer, error) {
	rendererOpts := []display.RendererOption{
		display.WithWidth(cfg.Render.Width),
		display.WithBlockFormatters(
			formatters.MakeJSONFormatter(cfg.Render.MaxBlockLines, cfg.Render.ColorJSON),
			formatters.MakeQueryFormatter(cfg.Render.MaxBlockLines),
		),
	}
	if opts.animate && !cfg.Render.DisableTyping {
		rendererOpts = append(rendererOpts, display.WithTypewriter(display.NewTypewriter(cfg.Render.TypingInterval)))
	}
	if opts.fetchAudio {
		fetcher, err := newAudioFetcher(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to set up audio fetching: %w", err)
		}
		rendererOpts = append(rendererOpts, display.WithAudioSource(fetcher))
	}
	return display.NewRenderer(out, rendererOpts...), nil
}
