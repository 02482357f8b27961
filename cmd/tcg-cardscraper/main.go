package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tcg-cardscraper",
	Short: "Scrape the card catalog of tcgcollector.com",
	Long: "tcg-cardscraper crawls the tcgcollector.com card listings, extracts the\n" +
		"attributes of every card page and writes one record per card to a\n" +
		"CSV, TSV, XLSX or SQLite file.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
