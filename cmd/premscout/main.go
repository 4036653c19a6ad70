package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/fang"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var (
	BuildVersion   = "master"
	BuildCommit    = "00000000"
	BuildDate      = time.Now().Format("2006-01-02T15:04:05Z")
	BuildGoVersion = runtime.Version()
)

var errApp = errors.New("application error")

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(BuildVersion)); err != nil {
		slog.Error("Exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "premscout",
		Short: "Premier League fantasy player scout",
		Long: `premscout - browse, filter and rank Premier League fantasy players.

Serves the player dataset over MCP and a JSON API, or queries it from the terminal.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file path")
	flags.String("dataset-url", "", "Player dataset CSV (URL or file path)")
	flags.String("headshots-url", "", "Headshot CSV (URL or file path)")
	flags.String("cache-dir", "", "Feed cache directory")
	flags.Bool("use-cache", false, "Serve feeds from the cache when present")
	flags.String("log-level", "", "Log level: debug|info|warn|error")
	flags.String("log-format", "", "Log format: text|json")

	root.AddCommand(
		newServeCmd(),
		newPlayersCmd(),
		newLineupCmd(),
		newPlayerCmd(),
		newTeamsCmd(),
		newFetchCmd(),
		newHeadshotsCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Long:              "Print detailed version information about premscout",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "premscout - Premier League fantasy scout\n\n")
			fmt.Fprintf(out, "  Version: %s\n", BuildVersion)
			fmt.Fprintf(out, "  Commit:  %s\n", BuildCommit)
			fmt.Fprintf(out, "  Built:   %s\n", BuildDate)
			fmt.Fprintf(out, "  Runtime: %s\n\n", BuildGoVersion)
		},
	}
}
