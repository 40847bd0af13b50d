package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation/circulation/shell/config"
)

const (
	LogMsgSchemaCreated    = "events schema is in place"
	LogMsgNothingToMigrate = "the configured store keeps no schema"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the events table and its indexes in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return migrate(cmd.Context(), cfg)
		},
	}
}

func migrate(ctx context.Context, cfg config.Config) error {
	rt, err := newRuntime(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.shutdown(ctx)

	created, err := rt.createSchema(ctx)
	if err != nil {
		return err
	}

	if !created {
		rt.logger.Info(LogMsgNothingToMigrate, LogAttrStore, cfg.Store)
		return nil
	}

	rt.logger.Info(LogMsgSchemaCreated, LogAttrStore, cfg.Store)

	return nil
}
