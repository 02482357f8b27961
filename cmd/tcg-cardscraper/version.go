package main

import (
	"fmt"
	"io"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildTimeStr=..."
var (
	version      string
	buildTimeStr string
)

var sha1Regex = regexp.MustCompile("^[a-f0-9]{40}$")

func isSHA1(str string) bool {
	return sha1Regex.MatchString(str)
}

func getGoVersion() string {
	return strings.TrimPrefix(runtime.Version(), "go")
}

func displayBuildInformation(w io.Writer, version, buildTimeStr string) error {
	switch {
	case len(version) == 0:
		fmt.Fprintln(w, "tcg-cardscraper development version")
	case isSHA1(version):
		fmt.Fprintf(w, "tcg-cardscraper version %s\n", version[:7])
	default:
		fmt.Fprintf(w, "tcg-cardscraper version %s\n", version)
	}

	if len(buildTimeStr) == 0 {
		fmt.Fprintf(w, "Built with Go version %s\n", getGoVersion())
		return nil
	}

	buildTime, err := time.Parse("2006-01-02T15:04:05", buildTimeStr)
	if err != nil {
		return fmt.Errorf("invalid build time %s: %w", buildTimeStr, err)
	}

	fmt.Fprintf(w, "Built with Go version %s on %s\n", getGoVersion(), buildTime.Format(time.RFC3339))

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return displayBuildInformation(cmd.OutOrStdout(), version, buildTimeStr)
	},
}
