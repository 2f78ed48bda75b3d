package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/blogd/internal/config"
	"github.com/alfredjeanlab/blogd/internal/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all blog posts as JSONL",
	Long: `Export all blog posts as JSONL.

With --output, the export is written to that file, or to stdout when the
value is "-". Without it, the export is sent once to every destination
configured under [export].`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		st, err := openStore(cfg.Database)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if exportOutput == "-" {
			return export.ExportJSONL(ctx, st, cmd.OutOrStdout())
		}

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

		var dests []export.Destination
		if exportOutput != "" {
			dests = []export.Destination{export.NewFileDestination(exportOutput)}
		} else {
			dests = exportDestinations(ctx, cfg.Export, logger)
		}
		if len(dests) == 0 {
			return errors.New("no export destinations configured (set --output, export.s3_bucket, or export.file)")
		}

		if err := export.NewScheduler(st, dests, 0, logger).RunOnce(ctx); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", `write the export to this file ("-" for stdout)`)
}
