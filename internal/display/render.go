package display

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/agentchat/internal/chat"
	"github.com/grovetools/agentchat/internal/formatters"
	"github.com/grovetools/core/tui/theme"
)

// Formatting constants for output
const (
	treeChar     = "⎿" // Tree connector for sub-content
	audioChar    = "♪"
	invokeHint   = "[invoke]"
	defaultWidth = 80
)

// AudioSource resolves audio references in the background. The channel
// yields a playable local path, or closes empty on failure.
type AudioSource interface {
	FetchAsync(ctx context.Context, ref string) <-chan string
}

// Renderer writes render decisions to a terminal.
type Renderer struct {
	out        io.Writer
	typewriter *Typewriter
	audio      AudioSource
	jsonBlock  formatters.BlockFormatter
	queryBlock formatters.BlockFormatter
	width      int
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithTypewriter animates decisions marked Animate. Without it they are
// printed at once.
func WithTypewriter(tw *Typewriter) RendererOption {
	return func(r *Renderer) { r.typewriter = tw }
}

// WithAudioSource resolves agent message audio while the text renders.
func WithAudioSource(src AudioSource) RendererOption {
	return func(r *Renderer) { r.audio = src }
}

// WithBlockFormatters replaces the JSON and GraphQL query block formatters.
func WithBlockFormatters(jsonBlock, queryBlock formatters.BlockFormatter) RendererOption {
	return func(r *Renderer) {
		r.jsonBlock = jsonBlock
		r.queryBlock = queryBlock
	}
}

// WithWidth sets the column right-aligned decisions are placed against.
func WithWidth(width int) RendererOption {
	return func(r *Renderer) { r.width = width }
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, opts ...RendererOption) *Renderer {
	r := &Renderer{
		out:        out,
		jsonBlock:  formatters.MakeJSONFormatter(0, false),
		queryBlock: formatters.MakeQueryFormatter(0),
		width:      defaultWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type styles struct {
	userIcon  string
	agentIcon string
	codeIcon  string
	tree      string
	muted     lipgloss.Style
	header    lipgloss.Style
	card      lipgloss.Style
	code      lipgloss.Style
	errAlert  lipgloss.Style
	warnAlert lipgloss.Style
	warnMark  string
}

func newStyles() styles {
	mutedStyle := lipgloss.NewStyle().Foreground(theme.DefaultColors.MutedText)
	redStyle := lipgloss.NewStyle().Foreground(theme.DefaultColors.Red)
	yellowStyle := lipgloss.NewStyle().Foreground(theme.DefaultColors.Yellow)

	return styles{
		userIcon:  yellowStyle.Render(theme.IconChevron),
		agentIcon: lipgloss.NewStyle().Foreground(theme.DefaultColors.LightText).Render(theme.IconRobot),
		codeIcon:  lipgloss.NewStyle().Foreground(theme.DefaultColors.Green).Render(theme.IconRobot),
		tree:      mutedStyle.Render(treeChar),
		muted:     mutedStyle,
		header:    lipgloss.NewStyle().Bold(true).Foreground(theme.DefaultColors.Violet),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.DefaultColors.MutedText).
			Padding(0, 1),
		code: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.DefaultColors.MutedText).
			PaddingLeft(1).
			PaddingRight(1),
		errAlert: redStyle.
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(theme.DefaultColors.Red).
			PaddingLeft(1),
		warnAlert: yellowStyle.
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(theme.DefaultColors.Yellow).
			PaddingLeft(1),
		warnMark: yellowStyle.Render("!"),
	}
}

// Render writes a single decision followed by a blank line.
func (r *Renderer) Render(ctx context.Context, d chat.Decision) error {
	st := newStyles()

	// Start the fetch first so it overlaps with the typing animation.
	var audio <-chan string
	if d.Audio != nil && r.audio != nil {
		audio = r.audio.FetchAsync(ctx, d.Audio.URL)
	}

	var err error
	if d.Animate && r.typewriter != nil {
		err = r.renderAnimated(ctx, st, d)
	} else {
		_, err = fmt.Fprintln(r.out, r.compose(st, d))
	}
	if err != nil {
		return err
	}

	if audio != nil {
		select {
		case path, ok := <-audio:
			if ok {
				if _, err := fmt.Fprintf(r.out, "  %s  %s\n", st.tree, st.muted.Render(audioChar+" "+path)); err != nil {
					return err
				}
			}
		case <-ctx.Done():
		}
	}

	_, err = fmt.Fprintln(r.out)
	return err
}

// RenderAll renders decisions in order, stopping at the first write error.
func (r *Renderer) RenderAll(ctx context.Context, decisions []chat.Decision) error {
	for _, d := range decisions {
		if err := r.Render(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) icon(st styles, d chat.Decision) string {
	switch {
	case d.Kind.FromUser():
		return st.userIcon
	case d.Frame == chat.FrameCode:
		return st.codeIcon
	default:
		return st.agentIcon
	}
}

// compose builds the complete static form of a decision.
func (r *Renderer) compose(st styles, d chat.Decision) string {
	var body string
	switch d.Frame {
	case chat.FrameCode:
		body = r.codeBlock(st, d)
	case chat.FrameCard:
		body = st.card.Render(d.Text)
	case chat.FrameErrorAlert:
		body = st.errAlert.Render(d.Text)
	case chat.FrameWarningAlert:
		body = st.warnAlert.Render(d.Text)
	default:
		body = d.Text
	}
	if d.Lead != "" {
		body = st.muted.Render(d.Lead) + " " + body
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, r.icon(st, d)+" ", body)
	if d.Align == chat.AlignRight {
		line = lipgloss.PlaceHorizontal(r.width, lipgloss.Right, line)
	}
	return line
}

func (r *Renderer) codeBlock(st styles, d chat.Decision) string {
	var body string
	if d.Language == chat.LanguageGraphQL {
		body = r.queryBlock(d.Text, d.Structured)
	} else {
		body = r.jsonBlock(d.Text, d.Structured)
	}

	if d.Header == "" {
		return st.code.Render(body)
	}
	header := st.header.Render(d.Header)
	if d.Invoke != nil {
		header += "  " + st.muted.Render(invokeHint)
	}
	return st.code.Render(header + "\n" + body)
}

// renderAnimated writes the decision's prefix and then types its text.
// Frames are reduced to a leading marker.
func (r *Renderer) renderAnimated(ctx context.Context, st styles, d chat.Decision) error {
	prefix := r.icon(st, d) + " "
	if d.Lead != "" {
		prefix += st.muted.Render(d.Lead) + " "
	}
	if d.Frame == chat.FrameWarningAlert {
		prefix += st.warnMark + " "
	}
	if _, err := io.WriteString(r.out, prefix); err != nil {
		return err
	}
	if err := r.typewriter.Type(ctx, r.out, d.Since, d.Text); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.out)
	return err
}
