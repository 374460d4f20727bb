package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var lockCmd = &cobra.Command{
	Use:   "lock <path>",
	Short: "Encrypt a store file in place",
	Long: `Lock encrypts the store file at rest under a password. The file is
replaced in place with an encrypted envelope; a failed lock leaves the
original file untouched.`,
	Example: `  dbvault lock records.db
  dbvault lock records.db --password secret --confirm secret`,
	Args: cobra.ExactArgs(1),
	RunE: runLock,
}

var (
	lockPassword string
	lockConfirm  string
)

func init() {
	rootCmd.AddCommand(lockCmd)

	lockCmd.Flags().StringVarP(&lockPassword, "password", "p", "",
		"Password (will prompt if not provided)")
	lockCmd.Flags().StringVar(&lockConfirm, "confirm", "",
		"Password confirmation (will prompt if not provided)")
}

func runLock(cmd *cobra.Command, args []string) error {
	path := args[0]

	if lockPassword == "" {
		var err error
		lockPassword, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		lockConfirm, err = promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	} else if !cmd.Flags().Changed("confirm") {
		// --password without --confirm still requires confirmation
		var err error
		lockConfirm, err = promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	if lockPassword == "" && !jsonOutput {
		printInfo("Warning: locking with an empty password")
	}

	if err := newFileVault(cmd, path).LockFile(path, lockPassword, lockConfirm); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{
			"success": true,
			"path":    path,
		})
	} else {
		printSuccess("Locked %s", path)
	}
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	// Read password without echo
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", err
	}

	return string(password), nil
}
