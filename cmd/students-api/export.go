package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/campusdev/student-registry/internal/config"
	"github.com/campusdev/student-registry/internal/export"
	"github.com/campusdev/student-registry/internal/logger"
	"github.com/campusdev/student-registry/internal/storage/backend"
)

func newExportCmd(configPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all students to an XLSX spreadsheet",
		Example: `  # Export to students.xlsx using the local config
  students-api export --config config/local.yaml

  # Choose the output file
  students-api export --config config/local.yaml -o /tmp/roster.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoad(*configPath)
			log := logger.New(cfg.Env, os.Stderr)

			store, err := backend.Open(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			students, err := store.FindAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("list students: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}

			if err := export.WriteXLSX(f, students); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			log.Info("students exported",
				slog.String("file", out),
				slog.Int("count", len(students)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "students.xlsx", "output file")

	return cmd
}
