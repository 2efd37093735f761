package analysis

import "sort"

// ValueCount pairs a category with its frequency.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts tallies values, most frequent first. Ties keep first-appearance order.
func ValueCounts(values []string) []ValueCount {
	idx := make(map[string]int)
	var out []ValueCount
	for _, v := range values {
		if i, ok := idx[v]; ok {
			out[i].Count++
			continue
		}
		idx[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// TopN truncates counts to the first n entries.
func TopN(counts []ValueCount, n int) []ValueCount {
	if n >= 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

// Labels extracts the values of counts in order.
func Labels(counts []ValueCount) []string {
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Value
	}
	return out
}

// Pair is one observation of two categorical variables.
type Pair struct {
	X, Hue string
}

// CrossTab is a count matrix: Counts[i][j] rows with X == Rows[i] and Hue == Cols[j].
type CrossTab struct {
	Rows   []string
	Cols   []string
	Counts [][]int
}

// CrossTabulate counts pairs. Rows follow xOrder when given (values not in it are
// dropped), otherwise first appearance; columns follow first appearance.
func CrossTabulate(pairs []Pair, xOrder []string) *CrossTab {
	ct := &CrossTab{}
	rowIdx := map[string]int{}
	fixed := len(xOrder) > 0
	for _, x := range xOrder {
		rowIdx[x] = len(ct.Rows)
		ct.Rows = append(ct.Rows, x)
	}
	colIdx := map[string]int{}
	type cell struct{ r, c int }
	counts := map[cell]int{}
	for _, p := range pairs {
		r, ok := rowIdx[p.X]
		if !ok {
			if fixed {
				continue
			}
			r = len(ct.Rows)
			rowIdx[p.X] = r
			ct.Rows = append(ct.Rows, p.X)
		}
		c, ok := colIdx[p.Hue]
		if !ok {
			c = len(ct.Cols)
			colIdx[p.Hue] = c
			ct.Cols = append(ct.Cols, p.Hue)
		}
		counts[cell{r, c}]++
	}
	ct.Counts = make([][]int, len(ct.Rows))
	for r := range ct.Counts {
		ct.Counts[r] = make([]int, len(ct.Cols))
		for c := range ct.Counts[r] {
			ct.Counts[r][c] = counts[cell{r, c}]
		}
	}
	return ct
}

// Column returns the counts for hue column j across all rows.
func (ct *CrossTab) Column(j int) []int {
	out := make([]int, len(ct.Rows))
	for i := range ct.Rows {
		out[i] = ct.Counts[i][j]
	}
	return out
}

// Group is the numeric sample for one category.
type Group struct {
	Key    string
	Values []float64
}

// GroupValues splits vals by the parallel keys, groups in first-appearance order.
func GroupValues(keys []string, vals []float64) []Group {
	idx := map[string]int{}
	var out []Group
	for i, k := range keys {
		if i >= len(vals) {
			break
		}
		g, ok := idx[k]
		if !ok {
			g = len(out)
			idx[k] = g
			out = append(out, Group{Key: k})
		}
		out[g].Values = append(out[g].Values, vals[i])
	}
	return out
}
