package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/dbvault/dbvault/internal/models"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
)

func printSuccess(format string, args ...interface{}) {
	_, _ = successColor.Fprintf(os.Stdout, format+"\n", args...)
}

func printError(format string, args ...interface{}) {
	_, _ = errorColor.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

func printInfo(format string, args ...interface{}) {
	_, _ = infoColor.Fprintf(os.Stderr, format+"\n", args...)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// printTable renders search results as tab-separated columns.
func printTable(data *models.TableData) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	for i, col := range data.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)

	for _, row := range data.Rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, val)
		}
		fmt.Fprintln(w)
	}

	_ = w.Flush()
}
