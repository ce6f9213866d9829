package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/calradia/rosterkit/pkg/roster"
)

// backupCmd represents the backup command.
var backupCmd = &cobra.Command{
	Use:   "backup <name>",
	Short: "Copy profiles.dat into the backup directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := profilesPath()
		if err != nil {
			return err
		}
		dest, err := roster.Backup(path, cfg.BackupDir, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Successfully made backup to %s\n", dest)
		return nil
	},
}

// restoreCmd represents the restore command.
var restoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Replace profiles.dat with a named backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := profilesPath()
		if err != nil {
			return err
		}
		src := filepath.Join(cfg.BackupDir, roster.NormalizeBackupName(args[0]))
		if err := roster.Restore(src, path); err != nil {
			return err
		}
		fmt.Printf("Successfully restored from backup located at %s\n", src)
		return nil
	},
}

// backupsCmd represents the backups command.
var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List available backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := roster.ListBackups(cfg.BackupDir)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No backups found.")
			return nil
		}
		fmt.Println("Available backups:")
		for i, name := range names {
			fmt.Printf("%d. %s\n", i+1, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(backupsCmd)
}
