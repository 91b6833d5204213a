package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Egidiu/cadastral-cli/internal/model"
	"github.com/Egidiu/cadastral-cli/internal/store"
	"github.com/Egidiu/cadastral-cli/pkg/ancpi"
)

var (
	addCounty string
	addUAT    string
	addNumber int64
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Queue a cadastral number lookup",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if addNumber <= 0 {
			return eris.New("cadastral number must be positive")
		}

		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		entry, err := reg.Resolve(addCounty, addUAT)
		if err != nil {
			return err
		}

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		req := model.LookupRequest{
			County:          entry.County,
			CountyID:        entry.CountyID,
			UAT:             entry.UAT,
			UATID:           entry.UATID,
			CadastralNumber: addNumber,
			QueryURL:        ancpi.QueryURL(cfg.ANCPI.BaseURL, entry.CountyID, entry.UATID, addNumber),
		}

		added, err := s.Add(ctx, req)
		if err != nil {
			if eris.Is(err, store.ErrDuplicate) {
				zap.L().Warn("lookup already queued",
					zap.String("county", entry.County),
					zap.String("uat", entry.UAT),
					zap.Int64("cadastral_number", addNumber),
				)
				return nil
			}
			return eris.Wrap(err, "queue lookup")
		}

		zap.L().Info("lookup queued",
			zap.String("id", added.ID),
			zap.String("county", added.County),
			zap.String("uat", added.UAT),
			zap.Int64("cadastral_number", added.CadastralNumber),
		)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addCounty, "county", "", "county name (required)")
	addCmd.Flags().StringVar(&addUAT, "uat", "", "local UAT name (required)")
	addCmd.Flags().Int64Var(&addNumber, "number", 0, "cadastral number (required)")
	_ = addCmd.MarkFlagRequired("county")
	_ = addCmd.MarkFlagRequired("uat")
	_ = addCmd.MarkFlagRequired("number")
	rootCmd.AddCommand(addCmd)
}
