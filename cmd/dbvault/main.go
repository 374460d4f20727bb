package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbvault/dbvault/internal/config"
	"github.com/dbvault/dbvault/internal/events"
	"github.com/dbvault/dbvault/internal/models"
	"github.com/dbvault/dbvault/internal/storage"
	"github.com/dbvault/dbvault/internal/store"
	"github.com/dbvault/dbvault/internal/vault"
)

var rootCmd = &cobra.Command{
	Use:   "dbvault",
	Short: "Manage a single-table data file with at-rest encryption",
	Long: `dbvault manages a single-table relational data file and can lock
it at rest with password-based encryption.

A store file is a plain sqlite database while unlocked; lock replaces it
in place with an encrypted envelope, unlock restores it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

var (
	cfgPath    string
	verbose    bool
	jsonOutput bool

	cfg    *config.Config
	logger *events.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output results as JSON")
}

// setup loads config and builds the shared logger before any command runs.
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.NewLoader(cfgPath).Load()
	if err != nil {
		return err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.EnsureLogDir(); err != nil {
		return err
	}

	logger, err = events.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	events.SetDefault(logger)

	cmd.SetContext(events.WithLogger(cmd.Context(), logger))
	return nil
}

// newFileVault wires the vault stack for lock/unlock commands, with the
// target file tagged on the logger via the command context.
func newFileVault(cmd *cobra.Command, path string) *vault.FileVault {
	log := events.FromContext(events.WithStorePath(cmd.Context(), path))
	files := storage.NewFileStore(log)
	files.SetMaxFileSize(cfg.Storage.MaxFileSize)
	codec := vault.NewCodec(cfg.Crypto.Iterations)
	return vault.NewFileVault(codec, files, log)
}

// newStore wires the tabular collaborator for CRUD commands.
func newStore(cmd *cobra.Command, path string) *store.Store {
	log := events.FromContext(events.WithStorePath(cmd.Context(), path))
	return store.New(&cfg.Store, log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if jsonOutput {
			printJSON(map[string]interface{}{
				"success": false,
				"code":    models.ErrorCode(err),
				"error":   err.Error(),
			})
		} else {
			printError("%v", err)
		}
		os.Exit(1)
	}
}
