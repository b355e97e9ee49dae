package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/dustin/go-humanize"
	"github.com/minicodemonkey/chime/internal/config"
	"github.com/minicodemonkey/chime/internal/score"
	"github.com/minicodemonkey/chime/internal/wavfile"
)

// reportStyle is the dark style without a document margin.
var reportStyle ansi.StyleConfig

func init() {
	reportStyle = styles.DarkStyleConfig
	zero := uint(0)
	reportStyle.Document.Margin = &zero
}

// InfoOptions contains configuration for the info command.
type InfoOptions struct {
	ScorePath string    // Score YAML file to describe
	Width     int       // Word wrap width (default: terminal width)
	Out       io.Writer // Where the report is printed (default: stdout)
}

// RunInfo prints a report describing a score and its last render.
// The report is styled markdown on a terminal and plain markdown otherwise.
func RunInfo(opts InfoOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Width <= 0 {
		opts.Width = terminalWidth(opts.Out)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	s, err := score.Load(opts.ScorePath)
	if err != nil {
		return err
	}

	report, err := BuildInfoReport(opts.ScorePath, s, cfg)
	if err != nil {
		return err
	}

	if isTerminal(opts.Out) {
		report = renderMarkdown(report, opts.Width)
	}
	fmt.Fprintln(opts.Out, report)
	return nil
}

// BuildInfoReport describes the score as markdown: totals, one table row
// per event, and the format of the rendered file if it exists.
func BuildInfoReport(scorePath string, s *score.Score, cfg *config.Config) (string, error) {
	tl, err := s.Timeline()
	if err != nil {
		return "", err
	}
	rs := resolveSettings(RenderOptions{ScorePath: scorePath}, s, cfg)

	title := s.Title
	if title == "" {
		title = scorePath
	}

	extent := tl.Extent(rs.silence)
	samples := int(extent * float64(rs.sampleRate))

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Events | %d |\n", tl.Len())
	fmt.Fprintf(&b, "| Length | %s |\n", formatDuration(seconds(extent)))
	fmt.Fprintf(&b, "| Trailing silence | %s |\n", formatDuration(seconds(rs.silence)))
	fmt.Fprintf(&b, "| Sample rate | %d Hz |\n", rs.sampleRate)
	fmt.Fprintf(&b, "| Samples | %s |\n", humanize.Comma(int64(samples)))
	fmt.Fprintf(&b, "| Output | %s |\n", rs.output)

	if tl.Len() > 0 {
		b.WriteString("\n## Events\n\n")
		b.WriteString("| # | Shape | Start | Duration | Pitch | Frequency |\n|---|---|---|---|---|---|\n")
		for i, e := range tl.Events() {
			fmt.Fprintf(&b, "| %d | %s | %.3f s | %.3f s | %+g | %.2f Hz |\n",
				i+1, e.Shape, e.Start, e.Duration, e.Pitch, e.Frequency())
		}
	}

	if info, err := wavfile.ReadInfo(rs.output); err == nil {
		b.WriteString("\n## Last render\n\n")
		fmt.Fprintf(&b, "%d Hz, %d-bit, %d channel, %s (%s frames)\n",
			info.SampleRate, info.BitsPerSample, info.Channels,
			formatDuration(info.Duration()), humanize.Comma(int64(info.Frames)))
	}

	return b.String(), nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// renderMarkdown renders a markdown string as styled terminal output.
func renderMarkdown(markdown string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(reportStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}

	rendered, err := r.Render(markdown)
	if err != nil {
		return markdown
	}

	return strings.TrimSpace(rendered)
}
