package store

import (
	"fmt"
	"strings"
)

// Pair is a column name with its value, parsed from command arguments.
type Pair struct {
	Column string
	Value  string
}

// ParsePairs splits arguments of the form "column<sep>value" on the first
// separator. Row data uses ":" ("name:alice"), update assignments use "="
// ("name=bob"). Values may contain the separator; columns may not.
func ParsePairs(args []string, sep string) ([]Pair, error) {
	pairs := make([]Pair, 0, len(args))
	for _, arg := range args {
		col, val, found := strings.Cut(arg, sep)
		if !found {
			return nil, fmt.Errorf("malformed argument %q: expected column%svalue", arg, sep)
		}
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, fmt.Errorf("malformed argument %q: empty column name", arg)
		}
		pairs = append(pairs, Pair{Column: col, Value: val})
	}
	return pairs, nil
}
