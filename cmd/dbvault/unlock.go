package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock <path>",
	Short: "Decrypt a locked store file in place",
	Long: `Unlock decrypts an envelope produced by lock, restoring the plain
store file. A wrong password or a corrupted file fails authentication and
leaves the envelope untouched.`,
	Example: `  dbvault unlock records.db
  dbvault unlock records.db --password secret`,
	Args: cobra.ExactArgs(1),
	RunE: runUnlock,
}

var unlockPassword string

func init() {
	rootCmd.AddCommand(unlockCmd)

	unlockCmd.Flags().StringVarP(&unlockPassword, "password", "p", "",
		"Password (will prompt if not provided)")
}

func runUnlock(cmd *cobra.Command, args []string) error {
	path := args[0]

	if unlockPassword == "" && !cmd.Flags().Changed("password") {
		var err error
		unlockPassword, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	if err := newFileVault(cmd, path).UnlockFile(path, unlockPassword); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{
			"success": true,
			"path":    path,
		})
	} else {
		printSuccess("Unlocked %s", path)
	}
	return nil
}
