package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordlog/internal/bootstrap"
	"github.com/at-ishikawa/wordlog/internal/categorize"
	"github.com/at-ishikawa/wordlog/internal/cli"
)

func newSyncCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Save the words queued while offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				printer := cli.NewPrinter(cmd.OutOrStdout())
				if !services.Checker.IsConnected(ctx) {
					fmt.Fprintln(cmd.OutOrStdout(), "Offline: nothing was synced")
					return nil
				}

				result, err := services.Syncer.Drain(ctx)
				printer.PrintDrainResult(result, err)
				if err != nil {
					return fmt.Errorf("syncer.Drain() > %w", err)
				}
				if result.Pending == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No pending words")
				}
				return nil
			})
		},
	}
}

func newPendingCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List the words queued while offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				pending, err := services.Syncer.Pending(ctx)
				if err != nil {
					return fmt.Errorf("syncer.Pending() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintPending(pending)
				return nil
			})
		},
	}
}

func newCategorizeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize",
		Short: "Sort every uncategorized word into a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				report, err := services.Categorizer.Run(ctx)
				if errors.Is(err, categorize.ErrNothingToCategorize) {
					fmt.Fprintln(cmd.OutOrStdout(), "Every word already has a category")
					return nil
				}
				if err != nil {
					return fmt.Errorf("categorizer.Run() > %s: %w", cli.DescribeError(err), err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintCategorizeReport(report)
				return report.Err()
			})
		},
	}
}
