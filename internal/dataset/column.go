package dataset

import (
	"math"
	"strconv"
)

// Kind is the inferred storage kind of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Bool
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Column holds one named vector plus its validity mask. Only the slice that matches
// Kind is populated.
type Column struct {
	Name string
	Kind Kind
	// Integer reports that every value is a whole number and none were missing at load.
	Integer bool
	// Levels, when set, fixes the category order of a categorical column.
	Levels []string

	nums  []float64
	strs  []string
	bools []bool
	valid []bool
}

// NewNumeric builds a numeric column. A nil valid mask marks every value present,
// except NaN which is always treated as missing.
func NewNumeric(name string, vals []float64, valid []bool) *Column {
	v := maskOrAll(valid, len(vals))
	for i, x := range vals {
		if math.IsNaN(x) {
			v[i] = false
		}
	}
	return &Column{Name: name, Kind: Numeric, nums: vals, valid: v}
}

// NewCategorical builds a string column.
func NewCategorical(name string, vals []string, valid []bool) *Column {
	return &Column{Name: name, Kind: Categorical, strs: vals, valid: maskOrAll(valid, len(vals))}
}

// NewBool builds a boolean column.
func NewBool(name string, vals []bool, valid []bool) *Column {
	return &Column{Name: name, Kind: Bool, bools: vals, valid: maskOrAll(valid, len(vals))}
}

func maskOrAll(valid []bool, n int) []bool {
	if valid != nil {
		out := make([]bool, n)
		copy(out, valid)
		return out
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.valid) }

// IsMissing reports whether row i holds no value.
func (c *Column) IsMissing(i int) bool { return !c.valid[i] }

// Missing counts missing rows.
func (c *Column) Missing() int {
	n := 0
	for _, ok := range c.valid {
		if !ok {
			n++
		}
	}
	return n
}

// NonNull counts present rows.
func (c *Column) NonNull() int { return c.Len() - c.Missing() }

// Float returns the numeric value at row i.
func (c *Column) Float(i int) (float64, bool) {
	if c.Kind != Numeric || !c.valid[i] {
		return math.NaN(), false
	}
	return c.nums[i], true
}

// Str returns the categorical value at row i.
func (c *Column) Str(i int) (string, bool) {
	if c.Kind != Categorical || !c.valid[i] {
		return "", false
	}
	return c.strs[i], true
}

// Bool returns the boolean value at row i.
func (c *Column) Bool(i int) (bool, bool) {
	if c.Kind != Bool || !c.valid[i] {
		return false, false
	}
	return c.bools[i], true
}

// Floats returns the observed numeric values in row order.
func (c *Column) Floats() []float64 {
	if c.Kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for i, x := range c.nums {
		if c.valid[i] {
			out = append(out, x)
		}
	}
	return out
}

// Strings returns the observed values rendered as strings, in row order. Missing rows
// are skipped.
func (c *Column) Strings() []string {
	out := make([]string, 0, c.Len())
	for i := range c.valid {
		if c.valid[i] {
			out = append(out, c.Format(i))
		}
	}
	return out
}

// Dtype returns the pandas-style dtype name shown in dataset info.
func (c *Column) Dtype() string {
	switch c.Kind {
	case Numeric:
		if c.Integer {
			return "int64"
		}
		return "float64"
	case Bool:
		return "bool"
	default:
		if len(c.Levels) > 0 {
			return "category"
		}
		return "object"
	}
}

// Format renders row i for previews and row keys.
func (c *Column) Format(i int) string {
	if !c.valid[i] {
		return "NaN"
	}
	switch c.Kind {
	case Numeric:
		x := c.nums[i]
		if c.Integer {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case Bool:
		if c.bools[i] {
			return "True"
		}
		return "False"
	default:
		return c.strs[i]
	}
}

// Unique counts distinct present values.
func (c *Column) Unique() int {
	seen := make(map[string]struct{})
	for i := range c.valid {
		if c.valid[i] {
			seen[c.Format(i)] = struct{}{}
		}
	}
	return len(seen)
}

func (c *Column) subset(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, Integer: c.Integer, Levels: c.Levels, valid: make([]bool, len(rows))}
	switch c.Kind {
	case Numeric:
		out.nums = make([]float64, len(rows))
	case Bool:
		out.bools = make([]bool, len(rows))
	default:
		out.strs = make([]string, len(rows))
	}
	for j, i := range rows {
		out.valid[j] = c.valid[i]
		switch c.Kind {
		case Numeric:
			out.nums[j] = c.nums[i]
		case Bool:
			out.bools[j] = c.bools[i]
		default:
			out.strs[j] = c.strs[i]
		}
	}
	return out
}
