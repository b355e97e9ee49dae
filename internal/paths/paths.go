package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// homeDir returns the user's home directory, panicking if it can't be resolved.
var homeDir = func() string {
	h, err := os.UserHomeDir()
	if err != nil {
		panic("cannot resolve home directory: " + err.Error())
	}
	return h
}

// SetHomeDir overrides the home directory used by all path functions.
// Intended for testing. Returns a restore function.
func SetHomeDir(dir string) func() {
	old := homeDir
	homeDir = func() string { return dir }
	return func() { homeDir = old }
}

// ChimeDir returns ~/.chime/
func ChimeDir() string {
	return filepath.Join(homeDir(), ".chime")
}

// ConfigPath returns ~/.chime/config.yaml
func ConfigPath() string {
	return filepath.Join(ChimeDir(), "config.yaml")
}

// OutputPath resolves where the WAV rendered from scorePath is written.
// An explicit output wins; relative outputs are taken relative to the score's
// directory. Otherwise the score's base name with a .wav extension is placed
// in outputDir, or next to the score when outputDir is empty.
func OutputPath(scorePath, output, outputDir string) string {
	if output != "" {
		if filepath.IsAbs(output) {
			return output
		}
		return filepath.Join(filepath.Dir(scorePath), output)
	}

	base := filepath.Base(scorePath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".wav"
	if outputDir != "" {
		return filepath.Join(outputDir, name)
	}
	return filepath.Join(filepath.Dir(scorePath), name)
}
