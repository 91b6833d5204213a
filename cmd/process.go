package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Egidiu/cadastral-cli/internal/export"
	"github.com/Egidiu/cadastral-cli/internal/pipeline"
	"github.com/Egidiu/cadastral-cli/internal/projection"
	"github.com/Egidiu/cadastral-cli/pkg/ancpi"
)

var (
	processOutDir string
	processCSV    bool
	processSHP    bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Fetch, reproject and export all queued lookups",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		requests, err := s.Consume(ctx)
		if err != nil {
			return eris.Wrap(err, "consume queue")
		}
		if len(requests) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "queue is empty")
			return nil
		}

		client := ancpi.NewClient(ancpi.ClientOptions{
			UserAgent: cfg.ANCPI.UserAgent,
			Timeout:   cfg.ANCPI.Timeout(),
		})

		transformer, err := projection.NewStereo70()
		if err != nil {
			return eris.Wrap(err, "init projection")
		}

		runner := pipeline.NewRunner(client, transformer, cfg.ANCPI.Delay())

		zap.L().Info("processing queue",
			zap.Int("lookups", len(requests)),
			zap.Duration("delay", cfg.ANCPI.Delay()),
		)

		results, err := runner.Process(ctx, requests)
		if err != nil {
			return eris.Wrap(err, "process queue")
		}

		for _, res := range results {
			fmt.Fprintln(cmd.OutOrStdout(), pipeline.Summary(res))
		}

		rows := pipeline.Flatten(results)

		outDir := processOutDir
		if outDir == "" {
			outDir = cfg.Export.Dir
		}
		base := filepath.Join(outDir, cfg.Export.Basename)

		xlsxPath := base + ".xlsx"
		if err := export.WriteXLSX(xlsxPath, rows); err != nil {
			return eris.Wrap(err, "write xlsx")
		}
		zap.L().Info("wrote workbook", zap.String("path", xlsxPath), zap.Int("rows", len(rows)))

		if processCSV {
			csvPath := base + ".csv"
			if err := export.WriteCSV(csvPath, rows); err != nil {
				return eris.Wrap(err, "write csv")
			}
			zap.L().Info("wrote csv", zap.String("path", csvPath))
		}

		if processSHP {
			shpPath := base + ".shp"
			if err := export.WriteShapefile(shpPath, results); err != nil {
				return eris.Wrap(err, "write shapefile")
			}
			zap.L().Info("wrote shapefile", zap.String("path", shpPath))
		}

		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processOutDir, "out", "", "output directory (default from config)")
	processCmd.Flags().BoolVar(&processCSV, "csv", false, "also write a CSV export")
	processCmd.Flags().BoolVar(&processSHP, "shp", false, "also write an ESRI shapefile")
	rootCmd.AddCommand(processCmd)
}
