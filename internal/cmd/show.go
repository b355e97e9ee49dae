package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/minicodemonkey/chime/internal/score"
)

// ShowOptions contains configuration for the show command.
type ShowOptions struct {
	ScorePath string    // Score YAML file to print
	Out       io.Writer // Where the score is printed (default: stdout)
}

// RunShow prints the score in normalized YAML form, syntax highlighted when
// printing to a terminal. Invalid events are printed too, followed by the
// validation errors.
func RunShow(opts ShowOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	s, err := score.Load(opts.ScorePath)
	if err != nil {
		return err
	}

	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}

	if isTerminal(opts.Out) {
		if err := quick.Highlight(opts.Out, string(data), "yaml", "terminal256", "monokai"); err != nil {
			opts.Out.Write(data)
		}
	} else {
		opts.Out.Write(data)
	}

	return s.Validate()
}
