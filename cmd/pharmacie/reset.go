package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pharmacie/m/internal/config"
	"pharmacie/m/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset [collection]",
	Short: "Reinitialize a collection, or every collection, to its defaults",
	Long: `Reinitialize stored state to its defaults.

Collections: products, cart, orders, delivery_prices, prescriptions,
admin_auth. Without an argument, or with "all", every collection is reset.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	s, db, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	collection := store.Collection("all")
	if len(args) == 1 {
		collection = store.Collection(args[0])
	}
	if err := s.Reset(cmd.Context(), collection); err != nil {
		return err
	}
	log.Info().Str("collection", string(collection)).Msg("reset complete")
	return nil
}
