package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pharmacie/m/internal/config"
	"pharmacie/m/internal/export"
	"pharmacie/m/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored data",
}

var exportOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Write every order to an xlsx workbook",
	Args:  cobra.NoArgs,
	RunE:  runExportOrders,
}

func init() {
	exportOrdersCmd.Flags().StringVarP(&exportOut, "out", "o", "orders.xlsx", "output file")
	exportCmd.AddCommand(exportOrdersCmd)
}

func runExportOrders(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	s, db, err := openStore(cmd.Context(), cfg, store.WithoutWriteBack())
	if err != nil {
		return err
	}
	defer db.Close()

	orders := s.Orders()
	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	if err := export.WriteOrders(f, orders); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Int("orders", len(orders)).Str("file", exportOut).Msg("orders exported")
	return nil
}
