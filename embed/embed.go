// Package embed provides the score templates bundled with chime.
// All templates are embedded at compile time using Go's embed directive.
package embed

import (
	_ "embed"
	"strings"
)

//go:embed demo.yaml
var demoScoreTemplate string

// GetDemoScore returns the demo score YAML with the title substituted.
// An empty title falls back to "demo".
func GetDemoScore(title string) string {
	if title == "" {
		title = "demo"
	}
	return strings.ReplaceAll(demoScoreTemplate, "{{TITLE}}", title)
}
