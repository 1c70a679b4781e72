package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garnizeh/talentflow/internal/db"
)

var backupOutput string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a snapshot of the database",
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace the database with a backup",
	Long:  `Replace the configured database file with the given backup. Stop the server first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", "", "Backup file (default <database_path>.<timestamp>.bak)")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

func runBackup(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	dst := backupOutput
	if dst == "" {
		dst = fmt.Sprintf("%s.%s.bak", cfg.DatabasePath, time.Now().UTC().Format("20060102T150405Z"))
	}

	database, err := openDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Backup(ctx, database, dst); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Database backup written to %s.\n", dst)
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if err := db.Restore(args[0], cfg.DatabasePath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Database restored from %s.\n", args[0])
	return nil
}
