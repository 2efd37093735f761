package dataset

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/montanaflynn/stats"
)

// Imputation records the fill value chosen for one column.
type Imputation struct {
	Column   string
	Strategy string // median|mode
	Value    string
	Filled   int
}

// ImputeResult summarizes an Impute pass.
type ImputeResult struct {
	Filled  []Imputation
	Skipped []string // columns with no observed value
}

// Impute fills missing numeric values with the column median and missing categorical
// or boolean values with the column mode. Columns without any observed value are left
// as they are and listed in Skipped.
func (t *Table) Impute() ImputeResult {
	var res ImputeResult
	for _, c := range t.cols {
		miss := c.Missing()
		if miss == 0 {
			continue
		}
		if miss == c.Len() {
			res.Skipped = append(res.Skipped, c.Name)
			continue
		}
		switch c.Kind {
		case Numeric:
			med, err := stats.Median(c.Floats())
			if err != nil {
				res.Skipped = append(res.Skipped, c.Name)
				continue
			}
			for i := range c.valid {
				if !c.valid[i] {
					c.nums[i] = med
					c.valid[i] = true
				}
			}
			c.Integer = false
			res.Filled = append(res.Filled, Imputation{Column: c.Name, Strategy: "median", Value: strconv.FormatFloat(med, 'f', -1, 64), Filled: miss})
		case Bool:
			m := c.mode()
			b := m == "True"
			for i := range c.valid {
				if !c.valid[i] {
					c.bools[i] = b
					c.valid[i] = true
				}
			}
			res.Filled = append(res.Filled, Imputation{Column: c.Name, Strategy: "mode", Value: m, Filled: miss})
		default:
			m := c.mode()
			for i := range c.valid {
				if !c.valid[i] {
					c.strs[i] = m
					c.valid[i] = true
				}
			}
			res.Filled = append(res.Filled, Imputation{Column: c.Name, Strategy: "mode", Value: m, Filled: miss})
		}
	}
	return res
}

// mode returns the most frequent present value; ties resolve to the smallest value.
func (c *Column) mode() string {
	counts := make(map[string]int)
	for i := range c.valid {
		if c.valid[i] {
			counts[c.Format(i)]++
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best, bestN := "", -1
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best
}

// DropDuplicates removes rows identical to an earlier row across every column and
// returns the number of rows removed.
func (t *Table) DropDuplicates() int {
	buckets := make(map[uint64][]int, t.rows)
	keep := make([]int, 0, t.rows)
	var b strings.Builder
	for i := 0; i < t.rows; i++ {
		b.Reset()
		t.writeRowKey(&b, i)
		h := xxhash.Sum64String(b.String())
		dup := false
		for _, j := range buckets[h] {
			if t.rowsEqual(i, j) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		buckets[h] = append(buckets[h], i)
		keep = append(keep, i)
	}
	removed := t.rows - len(keep)
	if removed == 0 {
		return 0
	}
	*t = *t.take(keep)
	return removed
}

func (t *Table) writeRowKey(b *strings.Builder, row int) {
	for j, c := range t.cols {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		if !c.valid[row] {
			b.WriteString("\x00NA")
			continue
		}
		b.WriteString(c.Format(row))
	}
}

func (t *Table) rowsEqual(a, b int) bool {
	for _, c := range t.cols {
		if c.valid[a] != c.valid[b] {
			return false
		}
		if !c.valid[a] {
			continue
		}
		switch c.Kind {
		case Numeric:
			if c.nums[a] != c.nums[b] {
				return false
			}
		case Bool:
			if c.bools[a] != c.bools[b] {
				return false
			}
		default:
			if c.strs[a] != c.strs[b] {
				return false
			}
		}
	}
	return true
}
