package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minicodemonkey/chime/embed"
	"github.com/minicodemonkey/chime/internal/score"
)

// InitOptions contains configuration for the init command.
type InitOptions struct {
	Path  string    // Score file to create (default: score.yaml)
	Title string    // Score title (default: file name without extension)
	Force bool      // Overwrite an existing file
	Out   io.Writer // Where progress is printed (default: stdout)
}

// RunInit writes the demo score to a new file.
func RunInit(opts InitOptions) error {
	// Set defaults
	if opts.Path == "" {
		opts.Path = "score.yaml"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Title == "" {
		base := filepath.Base(opts.Path)
		opts.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if !isValidTitle(opts.Title) {
		return fmt.Errorf("invalid title %q: must contain only letters, numbers, spaces, hyphens, and underscores", opts.Title)
	}

	// Check if the score already exists
	if _, err := os.Stat(opts.Path); err == nil && !opts.Force {
		return fmt.Errorf("score already exists at %s. Use -force to overwrite it", opts.Path)
	}

	content := embed.GetDemoScore(opts.Title)
	if _, err := score.Parse([]byte(content)); err != nil {
		return fmt.Errorf("failed to build demo score: %w", err)
	}

	if err := os.WriteFile(opts.Path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write score: %w", err)
	}

	fmt.Fprintf(opts.Out, "Created %s\n", opts.Path)
	fmt.Fprintf(opts.Out, "Run 'chime render %s' to render it, or 'chime watch %s' to re-render on every save.\n", opts.Path, opts.Path)
	return nil
}

// isValidTitle checks if the title contains only characters that are safe
// to substitute into the YAML template unquoted.
func isValidTitle(title string) bool {
	if strings.TrimSpace(title) == "" {
		return false
	}
	for _, c := range title {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == ' ') {
			return false
		}
	}
	return true
}
