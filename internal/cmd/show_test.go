package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minicodemonkey/chime/internal/score"
)

func TestRunShow(t *testing.T) {
	scorePath := filepath.Join(t.TempDir(), "song.yaml")
	writeFile(t, scorePath, "title: compact\nevents:\n  - {shape: saw, start: 0, duration: 0.5, note: C4}\n")

	var out bytes.Buffer
	if err := RunShow(ShowOptions{ScorePath: scorePath, Out: &out}); err != nil {
		t.Fatalf("RunShow() returned error: %v", err)
	}

	want := `title: compact
events:
  - shape: saw
    start: 0
    duration: 0.5
    note: C4
`
	if out.String() != want {
		t.Errorf("RunShow() printed\n%s\nwant\n%s", out.String(), want)
	}
}

func TestRunShowInvalidScore(t *testing.T) {
	scorePath := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, scorePath, "events:\n  - {shape: square, start: 0, duration: -2}\n")

	var out bytes.Buffer
	err := RunShow(ShowOptions{ScorePath: scorePath, Out: &out})
	if !errors.Is(err, score.ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
	if !strings.Contains(out.String(), "duration: -2") {
		t.Errorf("expected the score to be printed before the error, got %q", out.String())
	}
}

func TestRunShowMissing(t *testing.T) {
	if err := RunShow(ShowOptions{ScorePath: filepath.Join(t.TempDir(), "nope.yaml"), Out: &bytes.Buffer{}}); err == nil {
		t.Error("expected error for missing score")
	}
}
