package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS", "BUILDKITE"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// StylesFor picks coloured styles only for an interactive terminal with
// colour allowed. CI logs always get plain text so they stay greppable.
func StylesFor(w io.Writer, forceNoColor bool) Styles {
	noColor := forceNoColor || DetectNoColor() || DetectCI() || !IsTTY(w)
	return GetStyles(noColor)
}
