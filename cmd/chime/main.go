package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minicodemonkey/chime/internal/cmd"
	"github.com/minicodemonkey/chime/internal/config"
	"github.com/minicodemonkey/chime/internal/notify"
	"github.com/minicodemonkey/chime/internal/tui"
)

// Version is set at build time via ldflags
var Version = "dev"

// errUsage is returned after usage has been printed for a bad invocation.
var errUsage = errors.New("invalid usage")

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches a subcommand. It returns errUsage when the arguments are
// wrong and usage was already printed to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errUsage
	}

	name, rest := args[0], args[1:]
	switch name {
	case "render":
		return runRender(rest, stdout, stderr)
	case "init":
		return runInit(rest, stdout, stderr)
	case "info":
		return runInfo(rest, stdout, stderr)
	case "show":
		return runShow(rest, stdout, stderr)
	case "watch":
		return runWatch(rest, stderr)
	case "demo":
		return runDemo(rest, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	case "version", "--version":
		fmt.Fprintf(stdout, "chime version %s\n", Version)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", name)
		printUsage(stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `chime - render tone scores to WAV

Usage:
  chime render <score.yaml> [-o out.wav] [-rate N] [-silence S]
  chime init [path] [-force] [-title T]
  chime info <score.yaml> [-width N]
  chime show <score.yaml>
  chime watch <score.yaml> [-o out.wav] [-rate N] [-silence S] [-quiet]
  chime demo [-o out.wav]
  chime version

Settings are taken from flags, then the score, then ~/.chime/config.yaml.
`)
}

// newFlagSet creates a flag set whose errors and usage go to stderr.
func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("chime "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseInterspersed parses flags that may appear before or after positional
// arguments, so both "chime render song.yaml -o x.wav" and
// "chime render -o x.wav song.yaml" work.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			// The flag package has already printed the problem and usage
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, errUsage
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// scoreArg returns the single score path positional argument.
func scoreArg(fs *flag.FlagSet, positional []string) (string, error) {
	if len(positional) != 1 {
		fmt.Fprintf(fs.Output(), "%s: expected exactly one score file\n", fs.Name())
		fs.Usage()
		return "", errUsage
	}
	return positional[0], nil
}

// renderFlags registers the flags shared by render and watch.
func renderFlags(fs *flag.FlagSet) (output *string, rate *int, silence *float64) {
	output = fs.String("o", "", "output WAV path")
	rate = fs.Int("rate", 0, "sample rate in Hz")
	silence = fs.Float64("silence", 0, "trailing silence in seconds")
	return output, rate, silence
}

// renderOptions builds RenderOptions, leaving Silence unset unless the flag
// was given so that the score and config values still apply.
func renderOptions(fs *flag.FlagSet, scorePath, output string, rate int, silence float64) cmd.RenderOptions {
	opts := cmd.RenderOptions{
		ScorePath:  scorePath,
		Output:     output,
		SampleRate: rate,
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "silence" {
			opts.Silence = &silence
		}
	})
	return opts
}

func runRender(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("render", stderr)
	output, rate, silence := renderFlags(fs)

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	scorePath, err := scoreArg(fs, positional)
	if err != nil {
		return err
	}

	opts := renderOptions(fs, scorePath, *output, *rate, *silence)
	opts.Out = stdout
	return cmd.RunRender(opts)
}

func runInit(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("init", stderr)
	force := fs.Bool("force", false, "overwrite an existing score")
	title := fs.String("title", "", "score title (default: file name)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		fs.Usage()
		return errUsage
	}

	opts := cmd.InitOptions{
		Title: *title,
		Force: *force,
		Out:   stdout,
	}
	if len(positional) == 1 {
		opts.Path = positional[0]
	}
	return cmd.RunInit(opts)
}

func runInfo(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("info", stderr)
	width := fs.Int("width", 0, "word wrap width (default: terminal width)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	scorePath, err := scoreArg(fs, positional)
	if err != nil {
		return err
	}

	return cmd.RunInfo(cmd.InfoOptions{
		ScorePath: scorePath,
		Width:     *width,
		Out:       stdout,
	})
}

func runShow(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("show", stderr)

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	scorePath, err := scoreArg(fs, positional)
	if err != nil {
		return err
	}

	return cmd.RunShow(cmd.ShowOptions{ScorePath: scorePath, Out: stdout})
}

func runWatch(args []string, stderr io.Writer) error {
	fs := newFlagSet("watch", stderr)
	output, rate, silence := renderFlags(fs)
	quiet := fs.Bool("quiet", false, "don't play a chime after each render")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	scorePath, err := scoreArg(fs, positional)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := tui.NewApp(renderOptions(fs, scorePath, *output, *rate, *silence))
	if err != nil {
		return err
	}

	if cfg.Watch.Sound && !*quiet {
		if n, err := notify.GetNotifier(); err != nil {
			log.Printf("Warning: completion sound disabled: %v", err)
		} else {
			app.SetNotifier(n)
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run watch: %w", err)
	}
	return nil
}

func runDemo(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("demo", stderr)
	output := fs.String("o", "", "output WAV path (default: music.wav)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		fs.Usage()
		return errUsage
	}

	return cmd.RunDemo(cmd.DemoOptions{Output: *output, Out: stdout})
}
