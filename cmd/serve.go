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
	"github.com/Egidiu/cadastral-cli/internal/server"
)

var (
	serveInput string
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve processed parcels on an interactive map",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		input := serveInput
		if input == "" {
			input = filepath.Join(cfg.Export.Dir, cfg.Export.Basename+".xlsx")
		}

		rows, err := export.ReadXLSX(input)
		if err != nil {
			return eris.Wrapf(err, "read workbook %s", input)
		}

		srv := server.New(rows)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		addr := fmt.Sprintf(":%d", port)

		zap.L().Info("starting map viewer",
			zap.String("addr", addr),
			zap.String("input", input),
			zap.Int("rows", len(rows)),
		)

		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveInput, "input", "", "processed workbook to serve (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
