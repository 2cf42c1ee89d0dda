package main

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordlog/internal/bootstrap"
	"github.com/at-ishikawa/wordlog/internal/config"
	"github.com/at-ishikawa/wordlog/internal/database"
)

func newMigrateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to the MySQL record store and the local SQLite queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				if cfg.Remote.Driver == config.RemoteDriverMySQL {
					db, err := database.Open(cfg.Database)
					if err != nil {
						return fmt.Errorf("database.Open() > %w", err)
					}
					app.AddShutdownHook(func(context.Context) error {
						return db.Close()
					})
					if err := database.Migrate(ctx, db.DB, goose.DialectMySQL); err != nil {
						return fmt.Errorf("database.Migrate(mysql) > %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Migrated the MySQL record store")
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Skipped the record store: the %s schema is managed by the project\n", cfg.Remote.Driver)
				}

				offlineDriver := opts.buildOptions().OfflineDriver
				if offlineDriver == "" {
					offlineDriver = cfg.Offline.Driver
				}
				if offlineDriver != config.OfflineDriverSQLite {
					return nil
				}
				db, err := database.OpenSQLite(cfg.Offline.Path)
				if err != nil {
					return fmt.Errorf("database.OpenSQLite() > %w", err)
				}
				app.AddShutdownHook(func(context.Context) error {
					return db.Close()
				})
				if err := database.Migrate(ctx, db.DB, goose.DialectSQLite3); err != nil {
					return fmt.Errorf("database.Migrate(sqlite) > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Migrated the offline queue at %s\n", cfg.Offline.Path)
				return nil
			})
		},
	}
}
