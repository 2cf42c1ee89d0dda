package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCommand := newRootCommand()
	if err := rootCommand.Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	rootCommand := &cobra.Command{
		Use:           "wordlog",
		Short:         "Collect words and phrases and learn them by reviewing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(opts.debugMode)
			return nil
		},
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file path")
	flags.BoolVar(&opts.debugMode, "debug", false, "Enable debug mode")
	flags.BoolVar(&opts.forceOffline, "offline", false, "Treat the network as unavailable")
	flags.Var(&opts.offlineStore, "offline-store", "Override the offline queue store (sqlite, file or memory)")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "Keep the offline queue in memory for this run only")
	rootCommand.MarkFlagsMutuallyExclusive("offline-store", "ephemeral")

	rootCommand.AddCommand(
		newAddCommand(opts),
		newListCommand(opts),
		newReviewCommand(opts),
		newShowCommand(opts),
		newSummaryCommand(opts),
		newDetailCommand(opts),
		newDeleteCommand(opts),
		newSyncCommand(opts),
		newPendingCommand(opts),
		newCategorizeCommand(opts),
		newExportCommand(opts),
		newMigrateCommand(opts),
	)
	return rootCommand
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}
