package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latebit/degrees/internal/dataset"
)

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <directory> <file.db>",
		Short: "Load a CSV dataset into a SQLite file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, file := args[0], args[1]
			if !dataset.IsDatabase(file) {
				return fmt.Errorf("%s: database file must end in .db, .sqlite or .sqlite3", file)
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd)

			ctx := cmd.Context()
			recs, err := dataset.ReadDir(ctx, dir)
			if err != nil {
				return err
			}
			// Reject input the search would refuse before writing anything.
			if _, err := recs.Index(); err != nil {
				return err
			}

			db, err := dataset.OpenDB(file)
			if err != nil {
				return fmt.Errorf("open database %q: %w", file, err)
			}
			defer func() { _ = dataset.CloseDB(db) }()

			if err := dataset.Migrate(ctx, db); err != nil {
				return err
			}
			if version, err := dataset.SchemaVersion(ctx, db); err == nil {
				logger.Debug("schema ready", "file", file, "version", version)
			}
			if err := dataset.WriteDB(ctx, db, recs); err != nil {
				return err
			}
			logger.Info("imported",
				"from", dir,
				"to", file,
				"people", len(recs.People),
				"movies", len(recs.Movies),
				"stars", len(recs.Stars),
			)
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.db> <directory>",
		Short: "Write a SQLite dataset back out as CSV files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, dir := args[0], args[1]
			if _, err := os.Stat(file); err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd)

			db, err := dataset.OpenDB(file)
			if err != nil {
				return fmt.Errorf("open database %q: %w", file, err)
			}
			defer func() { _ = dataset.CloseDB(db) }()

			recs, err := dataset.ReadDB(cmd.Context(), db)
			if err != nil {
				return err
			}
			if err := dataset.WriteDir(dir, recs); err != nil {
				return err
			}
			logger.Info("exported", "from", file, "to", dir, "people", len(recs.People))
			return nil
		},
	}
}
