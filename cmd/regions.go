package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var regionsCounty string

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List counties and UATs from the reference workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		if regionsCounty == "" {
			for _, county := range reg.Counties() {
				fmt.Fprintln(cmd.OutOrStdout(), county)
			}
			return nil
		}

		uats := reg.UATs(regionsCounty)
		for _, e := range uats {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (county %d, UAT %d)\n", e.UAT, e.CountyID, e.UATID)
		}
		return nil
	},
}

func init() {
	regionsCmd.Flags().StringVar(&regionsCounty, "county", "", "list UATs of this county instead of counties")
	rootCmd.AddCommand(regionsCmd)
}
