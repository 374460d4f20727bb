package main

import (
	"github.com/spf13/cobra"

	"github.com/dbvault/dbvault/internal/store"
)

var createStoreCmd = &cobra.Command{
	Use:   "create-store <path> [column...]",
	Short: "Create a new store file",
	Long: `Create a new store file. When column names are given, the data
table is created with them; otherwise only the empty database file is
written and columns can be defined later by re-running with columns.`,
	Example: `  dbvault create-store records.db
  dbvault create-store records.db name age city`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		columns := args[1:]

		s := newStore(cmd, path)
		if err := s.Create(path); err != nil {
			return err
		}
		if len(columns) > 0 {
			if err := s.DefineColumns(path, columns); err != nil {
				return err
			}
		}

		if jsonOutput {
			printJSON(map[string]interface{}{
				"success": true,
				"path":    path,
				"columns": columns,
			})
		} else {
			printSuccess("Created store %s", path)
		}
		return nil
	},
}

var addRowCmd = &cobra.Command{
	Use:   "add-row <path> <column:value>...",
	Short: "Add a row to the store",
	Example: `  dbvault add-row records.db name:alice age:30
  dbvault add-row records.db "city:New York"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		row, err := store.ParsePairs(args[1:], ":")
		if err != nil {
			return err
		}
		if err := newStore(cmd, path).InsertRow(path, row); err != nil {
			return err
		}

		if jsonOutput {
			printJSON(map[string]interface{}{"success": true})
		} else {
			printSuccess("Row added")
		}
		return nil
	},
}

var searchRowsCmd = &cobra.Command{
	Use:   "search-rows <path> [criteria]",
	Short: "Search rows matching criteria",
	Long: `Search rows. The criteria text is handed to the query engine
verbatim as a WHERE clause; omitting it returns every row.`,
	Example: `  dbvault search-rows records.db
  dbvault search-rows records.db "age > '25' AND city = 'Berlin'"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		criteria := ""
		if len(args) > 1 {
			criteria = args[1]
		}

		data, err := newStore(cmd, path).Search(path, criteria)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(data)
			return nil
		}
		if data.Empty() {
			printInfo("No matching rows found")
			return nil
		}
		printTable(data)
		return nil
	},
}

var updateRowsCmd = &cobra.Command{
	Use:     "update-rows <path> <criteria> <column=value>...",
	Short:   "Update rows matching criteria",
	Example: `  dbvault update-rows records.db "name = 'alice'" age=31 city=Oslo`,
	Args:    cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, criteria := args[0], args[1]

		set, err := store.ParsePairs(args[2:], "=")
		if err != nil {
			return err
		}
		affected, err := newStore(cmd, path).UpdateRows(path, criteria, set)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(map[string]interface{}{
				"success":  true,
				"affected": affected,
			})
		} else {
			printSuccess("Updated %d row(s)", affected)
		}
		return nil
	},
}

var deleteRowsCmd = &cobra.Command{
	Use:     "delete-rows <path> <criteria>",
	Short:   "Delete rows matching criteria",
	Example: `  dbvault delete-rows records.db "age < '18'"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		affected, err := newStore(cmd, args[0]).DeleteRows(args[0], args[1])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(map[string]interface{}{
				"success":  true,
				"affected": affected,
			})
		} else {
			printSuccess("Deleted %d row(s)", affected)
		}
		return nil
	},
}

var renameColumnCmd = &cobra.Command{
	Use:     "rename-column <path> <old> <new>",
	Short:   "Rename a column, keeping its data",
	Example: `  dbvault rename-column records.db city location`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newStore(cmd, args[0]).RenameColumn(args[0], args[1], args[2]); err != nil {
			return err
		}

		if jsonOutput {
			printJSON(map[string]interface{}{"success": true})
		} else {
			printSuccess("Renamed column %s to %s", args[1], args[2])
		}
		return nil
	},
}

var dropColumnCmd = &cobra.Command{
	Use:     "drop-column <path> <column>",
	Short:   "Remove a column and its data",
	Example: `  dbvault drop-column records.db age`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newStore(cmd, args[0]).DropColumn(args[0], args[1]); err != nil {
			return err
		}

		if jsonOutput {
			printJSON(map[string]interface{}{"success": true})
		} else {
			printSuccess("Dropped column %s", args[1])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createStoreCmd)
	rootCmd.AddCommand(addRowCmd)
	rootCmd.AddCommand(searchRowsCmd)
	rootCmd.AddCommand(updateRowsCmd)
	rootCmd.AddCommand(deleteRowsCmd)
	rootCmd.AddCommand(renameColumnCmd)
	rootCmd.AddCommand(dropColumnCmd)
}
