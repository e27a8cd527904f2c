/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/lifestyleblend/apiserver/config"
	"github.com/lifestyleblend/apiserver/internal/storage"
	"github.com/spf13/cobra"
)

// assetsCmd represents the assets command.
var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Inspect and clean up cover assets in object storage",
}

var assetsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Write a cover object to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStorage(cmd)
		if err != nil {
			return err
		}

		object, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get object failed: %w", err)
		}
		defer object.Close()

		if _, err := io.Copy(os.Stdout, object); err != nil {
			return fmt.Errorf("write object failed: %w", err)
		}
		return nil
	},
}

var assetsRmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Remove an orphaned cover object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStorage(cmd)
		if err != nil {
			return err
		}

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("remove object failed: %w", err)
		}
		return nil
	},
}

func openStorage(cmd *cobra.Command) (*storage.Storage, error) {
	cfg := config.LoadConfig()

	awsCfg, err := config.LoadAWS(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("load aws config failed: %w", err)
	}
	return storage.New(awsCfg, cfg)
}

func init() {
	rootCmd.AddCommand(assetsCmd)
	assetsCmd.AddCommand(assetsGetCmd, assetsRmCmd)
}
