package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/wordlog/internal/bootstrap"
	"github.com/at-ishikawa/wordlog/internal/config"
)

type globalOptions struct {
	configFile   string
	debugMode    bool
	forceOffline bool
	offlineStore offlineStoreValue
	ephemeral    bool
}

// offlineStoreValue is a pflag.Value restricted to the offline store drivers.
type offlineStoreValue string

var _ pflag.Value = (*offlineStoreValue)(nil)

var offlineStoreDrivers = []string{
	config.OfflineDriverSQLite,
	config.OfflineDriverFile,
	config.OfflineDriverMemory,
}

func (v *offlineStoreValue) String() string {
	return string(*v)
}

func (v *offlineStoreValue) Set(value string) error {
	for _, driver := range offlineStoreDrivers {
		if value == driver {
			*v = offlineStoreValue(value)
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(offlineStoreDrivers, ", "))
}

func (v *offlineStoreValue) Type() string {
	return "driver"
}

func (opts *globalOptions) buildOptions() bootstrap.Options {
	driver := string(opts.offlineStore)
	if opts.ephemeral {
		driver = config.OfflineDriverMemory
	}
	return bootstrap.Options{
		ForceOffline:  opts.forceOffline,
		OfflineDriver: driver,
	}
}

func (opts *globalOptions) loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loader.Load() > %w", err)
	}
	return cfg, nil
}

// runWithServices builds the services for one command and releases them when run returns or on interrupt.
func (opts *globalOptions) runWithServices(cmd *cobra.Command, run func(ctx context.Context, services *bootstrap.Services) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	app := bootstrap.New()
	return app.Run(cmd.Context(), func(ctx context.Context) error {
		services, err := bootstrap.Build(ctx, app, cfg, opts.buildOptions())
		if err != nil {
			return fmt.Errorf("bootstrap.Build() > %w", err)
		}
		return run(ctx, services)
	})
}
