package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"landmap/internal/config"
	"landmap/internal/database"
	"landmap/internal/importer"
	"landmap/internal/logger"
	"landmap/internal/repository"
)

func main() {
	root := &cobra.Command{
		Use:   "landmap-import",
		Short: "Load parcel, vacant land and zoning data into the landmap store",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newRunCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newMigrateCmd creates the tables and indexes without importing.
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create database tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			log := logger.New(cfg.Server.Env)
			ctx := cmd.Context()

			db, err := database.NewPostgresPool(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			if err := database.EnsureSchema(ctx, db.Pool); err != nil {
				return err
			}

			log.Info("Schema ready", map[string]interface{}{
				"database": cfg.Database.Name,
			})
			return nil
		},
	}
}

// newRunCmd performs a full import. The schema is ensured first so a
// fresh database works without a separate migrate step.
func newRunCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch all GIS layers and load them into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			log := logger.New(cfg.Server.Env)
			ctx := cmd.Context()

			db, err := database.NewPostgresPool(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			if !skipMigrate {
				if err := database.EnsureSchema(ctx, db.Pool); err != nil {
					return err
				}
			}

			repo := repository.NewParcelRepository(db.Pool)
			im := importer.New(repo, cfg.GIS, log)

			return runImport(ctx, im)
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run the schema bootstrap before importing")
	return cmd
}

func runImport(ctx context.Context, im *importer.Importer) error {
	if err := im.ImportAll(ctx); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}
