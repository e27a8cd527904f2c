/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/lifestyleblend/apiserver/config"
	"github.com/lifestyleblend/apiserver/internal/db"
	"github.com/lifestyleblend/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// indexesCmd represents the indexes command.
var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Ensure database indexes",
}

var indexesEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create the unique indexes the collections rely on",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		database, closeFn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("connect mongodb failed: %w", err)
		}
		defer func() {
			_ = closeFn(cmd.Context())
		}()

		if err := store.EnsureIndexes(cmd.Context(), database); err != nil {
			return fmt.Errorf("ensure indexes failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
	indexesCmd.AddCommand(indexesEnsureCmd)
}
