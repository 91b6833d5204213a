package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Egidiu/cadastral-cli/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued lookups",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		requests, err := s.List(ctx)
		if err != nil {
			return eris.Wrap(err, "list lookups")
		}

		if len(requests) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "queue is empty")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCOUNTY\tUAT\tCADASTRAL NUMBER\tQUEUED AT")
		for _, req := range requests {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				req.ID, req.County, req.UAT, req.CadastralNumber,
				req.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return tw.Flush()
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a queued lookup by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Remove(ctx, args[0]); err != nil {
			if eris.Is(err, store.ErrNotFound) {
				return eris.Errorf("no queued lookup with id %s", args[0])
			}
			return eris.Wrap(err, "remove lookup")
		}

		zap.L().Info("lookup removed", zap.String("id", args[0]))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all queued lookups",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Clear(ctx)
		if err != nil {
			return eris.Wrap(err, "clear queue")
		}

		zap.L().Info("queue cleared", zap.Int("removed", n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
}
