package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Table is an in-memory, column-oriented dataset.
type Table struct {
	Name  string
	cols  []*Column
	index map[string]int
	rows  int
}

// New assembles a table from equal-length columns.
func New(name string, cols ...*Column) (*Table, error) {
	t := &Table{Name: name, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if i == 0 {
			t.rows = c.Len()
		}
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len returns the row count.
func (t *Table) Len() int { return t.rows }

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []*Column { return t.cols }

// Names returns column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks a column up by exact name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return t.cols[i], nil
}

// ColumnOf looks a column up and checks its kind.
func (t *Table) ColumnOf(name string, kind Kind) (*Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != kind {
		return nil, &ColumnKindError{Column: name, Want: kind, Got: c.Kind}
	}
	return c, nil
}

// AddColumn appends c, or replaces the existing column of the same name in place.
func (t *Table) AddColumn(c *Column) error {
	if len(t.cols) > 0 && c.Len() != t.rows {
		return fmt.Errorf("add column %q: length %d, table has %d rows", c.Name, c.Len(), t.rows)
	}
	if len(t.cols) == 0 {
		t.rows = c.Len()
	}
	if i, ok := t.index[c.Name]; ok {
		t.cols[i] = c
		return nil
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.take(rows)
}

func (t *Table) take(rows []int) *Table {
	out := &Table{Name: t.Name, index: make(map[string]int, len(t.cols)), rows: len(rows)}
	for _, c := range t.cols {
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.subset(rows))
	}
	return out
}

// Head returns up to n formatted rows.
func (t *Table) Head(n int) [][]string {
	if n > t.rows {
		n = t.rows
	}
	if n <= 0 {
		return nil
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.cols))
		for j, c := range t.cols {
			row[j] = c.Format(i)
		}
		out[i] = row
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	rows := make([]int, t.rows)
	for i := range rows {
		rows[i] = i
	}
	return t.take(rows)
}

var punctRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// NormalizeName strips punctuation and replaces spaces with underscores.
func NormalizeName(name string) string {
	return strings.ReplaceAll(punctRe.ReplaceAllString(name, ""), " ", "_")
}

// NormalizeColumnNames applies NormalizeName to every column.
func (t *Table) NormalizeColumnNames() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		c.Name = NormalizeName(c.Name)
		if _, dup := t.index[c.Name]; !dup {
			t.index[c.Name] = i
		}
	}
}

// ColumnCount pairs a column name with a count.
type ColumnCount struct {
	Column string
	Count  int
}

// MissingCounts returns the missing-value count of every column.
func (t *Table) MissingCounts() []ColumnCount {
	out := make([]ColumnCount, len(t.cols))
	for i, c := range t.cols {
		out[i] = ColumnCount{Column: c.Name, Count: c.Missing()}
	}
	return out
}

// TotalMissing sums missing values across the table.
func (t *Table) TotalMissing() int {
	n := 0
	for _, c := range t.cols {
		n += c.Missing()
	}
	return n
}

var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// IsNA reports whether a raw cell is a missing marker.
func IsNA(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// FromRecords infers column kinds from raw string cells and builds a table. Rows shorter
// than the header are padded with missing cells; longer rows are truncated.
func FromRecords(name string, header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrEmptyDataset
	}
	names := mangleDuplicates(header)
	cols := make([]*Column, len(names))
	cells := make([]string, len(rows))
	valid := make([]bool, len(rows))
	for j, n := range names {
		for i, rec := range rows {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			cells[i] = v
			valid[i] = !IsNA(v)
		}
		cols[j] = inferColumn(n, cells, valid)
	}
	t, err := New(name, cols...)
	if err != nil {
		return nil, err
	}
	t.rows = len(rows)
	return t, nil
}

func mangleDuplicates(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			out[i] = fmt.Sprintf("%s.%d", h, n+1)
			continue
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}

func inferColumn(name string, cells []string, valid []bool) *Column {
	observed, missing := 0, 0
	allBool, allNum, allInt := true, true, true
	nums := make([]float64, len(cells))
	bools := make([]bool, len(cells))
	for i, v := range cells {
		if !valid[i] {
			missing++
			continue
		}
		observed++
		if b, ok := parseBoolLiteral(v); ok {
			bools[i] = b
		} else {
			allBool = false
		}
		if allNum {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				allNum = false
				continue
			}
			nums[i] = x
			if x != float64(int64(x)) {
				allInt = false
			}
		}
	}
	switch {
	case observed > 0 && allBool && missing == 0:
		return NewBool(name, bools, valid)
	case allNum:
		c := NewNumeric(name, nums, valid)
		c.Integer = observed > 0 && allInt && missing == 0
		return c
	default:
		strs := make([]string, len(cells))
		copy(strs, cells)
		return NewCategorical(name, strs, valid)
	}
}

func parseBoolLiteral(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}
