package models

// TableData holds the result of a row search: column names in table order
// plus the matching rows. Values are rendered as strings since the store
// schema is typeless.
type TableData struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the search matched no rows.
func (t *TableData) Empty() bool {
	return len(t.Rows) == 0
}
