package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordlog/internal/bootstrap"
	"github.com/at-ishikawa/wordlog/internal/cli"
	"github.com/at-ishikawa/wordlog/internal/datasync"
)

func newAddCommand(opts *globalOptions) *cobra.Command {
	var memo string
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Save a word, or queue it while offline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				result, err := services.Syncer.SaveWord(ctx, strings.Join(args, " "), memo)
				if err != nil {
					return fmt.Errorf("syncer.SaveWord() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintSaveResult(result)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&memo, "memo", "m", "", "supplementary note passed to explanations")
	return cmd
}

func newListCommand(opts *globalOptions) *cobra.Command {
	var categoryID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Sync pending words when online and list saved words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				snapshot, err := services.Syncer.Refresh(ctx, datasync.RefreshOptions{CategoryID: categoryID})
				if err != nil {
					return fmt.Errorf("syncer.Refresh() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintSnapshot(snapshot)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&categoryID, "category", "", "only list words in this category id")
	return cmd
}

func newReviewCommand(opts *globalOptions) *cobra.Command {
	var categoryID string
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review saved words one at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				snapshot, err := services.Syncer.Refresh(ctx, datasync.RefreshOptions{CategoryID: categoryID})
				if err != nil {
					return fmt.Errorf("syncer.Refresh() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintDrainResult(snapshot.Drain, snapshot.DrainErr)
				reviewCLI := cli.NewReviewCLI(services.Viewer, snapshot.Words, cmd.InOrStdin(), cmd.OutOrStdout())
				return cli.Run(ctx, reviewCLI)
			})
		},
	}
	cmd.Flags().StringVar(&categoryID, "category", "", "only review words in this category id")
	return cmd
}

func newShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a word and count the view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				result, err := services.Viewer.View(ctx, args[0])
				if err != nil {
					return fmt.Errorf("viewer.View() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintViewResult(result)
				return nil
			})
		},
	}
}

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <id>",
		Short: "Generate the short explanation of a word again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				w, err := services.Viewer.RegenerateSummary(ctx, args[0])
				if err != nil {
					return fmt.Errorf("viewer.RegenerateSummary() > %s: %w", cli.DescribeError(err), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), w.SummaryText())
				return nil
			})
		},
	}
}

func newDetailCommand(opts *globalOptions) *cobra.Command {
	var regenerate bool
	cmd := &cobra.Command{
		Use:   "detail <id>",
		Short: "Show the detailed explanation of a word, generating it when missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				w, err := services.Viewer.GenerateDetail(ctx, args[0], regenerate)
				if err != nil {
					return fmt.Errorf("viewer.GenerateDetail() > %s: %w", cli.DescribeError(err), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), w.DetailText())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "replace the stored detail")
	return cmd
}

func newDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				if err := services.Viewer.Delete(ctx, args[0]); err != nil {
					return fmt.Errorf("viewer.Delete() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newExportCommand(opts *globalOptions) *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every word and category to YAML files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithServices(cmd, func(ctx context.Context, services *bootstrap.Services) error {
				data, err := services.Exporter.Export(ctx)
				if err != nil {
					return fmt.Errorf("exporter.Export() > %w", err)
				}
				if err := datasync.NewYAMLSink(outputDir).WriteAll(data); err != nil {
					return fmt.Errorf("yamlSink.WriteAll() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d words and %d categories to %s\n", len(data.Words), len(data.Categories), outputDir)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "export", "output directory")
	return cmd
}
