package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/listenlens/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Options controls report contents.
type Options struct {
	// SampleRows is the number of preview rows; 0 disables the preview.
	SampleRows int
	// OutlierThreshold is the robust |z| cut-off (MAD based).
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for the listener report.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		OutlierThreshold: 3.5,
	}
}

// CleanStats describes what the cleaning stage changed.
type CleanStats struct {
	RowsLoaded   int
	Imputed      []dataset.Imputation
	Skipped      []string
	Duplicates   int
	// MissingAfter is the per-column missing count taken right after imputation,
	// before derived columns exist.
	MissingAfter []dataset.ColumnCount
}

// Report is a text-friendly description of the dataset before and after cleaning.
type Report struct {
	RunID         string
	Name          string
	Rows          int
	Header        []string
	Preview       [][]string
	Info          []ColumnInfo
	MissingBefore []dataset.ColumnCount
	MissingAfter  []dataset.ColumnCount
	Cleaning      CleanStats
	Numeric       []NumericSummary
	Categorical   []CategoricalSummary
	Unique        []dataset.ColumnCount
	Outliers      []OutlierSummary
	Warnings      []string
}

// ColumnInfo mirrors one line of a dataframe info listing.
type ColumnInfo struct {
	Name    string
	NonNull int
	Dtype   string
}

// NumericSummary holds count, mean, std and the five-number summary.
type NumericSummary struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// CategoricalSummary holds count, distinct values and the most frequent value.
type CategoricalSummary struct {
	Name   string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// OutlierSummary counts values outside the box-plot fences and beyond the robust z cut-off.
type OutlierSummary struct {
	Name      string
	LowFence  float64
	HighFence float64
	IQRCount  int
	MADCount  int
	MaxAbsZ   float64
	Threshold float64
}

// Describe builds the report. raw is the table as loaded (names normalized, before
// imputation); final is the cleaned table with derived columns.
func Describe(raw, final *dataset.Table, clean CleanStats, opt Options) *Report {
	if opt.OutlierThreshold <= 0 {
		opt.OutlierThreshold = 3.5
	}
	rep := &Report{
		Name:          raw.Name,
		Rows:          raw.Len(),
		Header:        raw.Names(),
		Preview:       raw.Head(opt.SampleRows),
		MissingBefore: raw.MissingCounts(),
		MissingAfter:  clean.MissingAfter,
		Cleaning:      clean,
	}
	for _, c := range raw.Columns() {
		rep.Info = append(rep.Info, ColumnInfo{Name: c.Name, NonNull: c.NonNull(), Dtype: c.Dtype()})
	}
	for _, c := range final.Columns() {
		rep.Unique = append(rep.Unique, dataset.ColumnCount{Column: c.Name, Count: c.Unique()})
		switch c.Kind {
		case dataset.Numeric:
			vals := c.Floats()
			rep.Numeric = append(rep.Numeric, summarizeNumeric(c.Name, vals))
			if len(vals) > 0 {
				rep.Outliers = append(rep.Outliers, summarizeOutliers(c.Name, vals, opt.OutlierThreshold))
			}
		case dataset.Categorical:
			// ordered bands are binned numbers, not free text
			if len(c.Levels) > 0 {
				continue
			}
			rep.Categorical = append(rep.Categorical, summarizeCategorical(c))
		}
	}
	for _, name := range clean.Skipped {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has no observed values; left unimputed", name))
	}
	if clean.Duplicates > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("dropped %d duplicate rows (%d -> %d)", clean.Duplicates, clean.RowsLoaded, final.Len()))
	}
	return rep
}

func summarizeNumeric(name string, vals []float64) NumericSummary {
	s := NumericSummary{Name: name, Count: len(vals)}
	nan := math.NaN()
	s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
	if len(vals) == 0 {
		return s
	}
	sorted := sortedCopy(vals)
	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = sorted[0]
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
	s.Max = sorted[len(sorted)-1]
	return s
}

func summarizeCategorical(c *dataset.Column) CategoricalSummary {
	vals := c.Strings()
	s := CategoricalSummary{Name: c.Name, Count: len(vals)}
	counts := ValueCounts(vals)
	s.Unique = len(counts)
	if len(counts) > 0 {
		s.Top = counts[0].Value
		s.Freq = counts[0].Count
	}
	return s
}

func summarizeOutliers(name string, vals []float64, thr float64) OutlierSummary {
	o := OutlierSummary{Name: name, Threshold: thr}
	if b, err := BoxStats(vals); err == nil {
		o.LowFence = b.Q1 - 1.5*b.IQR()
		o.HighFence = b.Q3 + 1.5*b.IQR()
		o.IQRCount = len(b.Outliers)
	}
	if len(vals) >= 8 {
		o.MADCount, o.MaxAbsZ = robustOutliers(vals, thr)
	}
	return o
}

// Markdown renders the report as sectioned plain text.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[LISTENER DATASET REPORT]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Header)))

	if len(r.Preview) > 0 {
		b.WriteString("\n[DATASET PREVIEW]\n")
		writeTable(&b, r.Header, r.Preview)
	}

	b.WriteString("\n[DATASET INFO]\n")
	for i, c := range r.Info {
		b.WriteString(fmt.Sprintf("%2d  %s: %d non-null, %s\n", i, safeName(c.Name), c.NonNull, c.Dtype))
	}

	b.WriteString("\n[MISSING VALUES (BEFORE CLEANING)]\n")
	writeCounts(&b, r.MissingBefore)
	b.WriteString("\n[MISSING VALUES (AFTER CLEANING)]\n")
	writeCounts(&b, r.MissingAfter)

	b.WriteString("\n[CLEANING]\n")
	if len(r.Cleaning.Imputed) == 0 {
		b.WriteString("- nothing to impute\n")
	}
	for _, im := range r.Cleaning.Imputed {
		b.WriteString(fmt.Sprintf("- %s: filled %d with %s %s\n", im.Column, im.Filled, im.Strategy, safeVal(im.Value)))
	}
	b.WriteString(fmt.Sprintf("- duplicates removed: %d\n", r.Cleaning.Duplicates))

	if len(r.Numeric) > 0 {
		b.WriteString("\n[SUMMARY STATISTICS (NUMERICAL)]\n")
		header := []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
		rows := make([][]string, 0, len(r.Numeric))
		for _, s := range r.Numeric {
			rows = append(rows, []string{
				s.Name, fmt.Sprintf("%d", s.Count), num(s.Mean), num(s.Std), num(s.Min),
				num(s.Q25), num(s.Q50), num(s.Q75), num(s.Max),
			})
		}
		writeTable(&b, header, rows)
	}

	if len(r.Categorical) > 0 {
		b.WriteString("\n[SUMMARY (CATEGORICAL)]\n")
		header := []string{"column", "count", "unique", "top", "freq"}
		rows := make([][]string, 0, len(r.Categorical))
		for _, s := range r.Categorical {
			rows = append(rows, []string{s.Name, fmt.Sprintf("%d", s.Count), fmt.Sprintf("%d", s.Unique), s.Top, fmt.Sprintf("%d", s.Freq)})
		}
		writeTable(&b, header, rows)
	}

	b.WriteString("\n[UNIQUE VALUES]\n")
	for _, u := range r.Unique {
		b.WriteString(fmt.Sprintf("- %s: %d unique values\n", u.Column, u.Count))
	}

	if len(r.Outliers) > 0 {
		b.WriteString("\n[OUTLIERS]\n")
		for _, o := range r.Outliers {
			b.WriteString(fmt.Sprintf("- %s: %d outside [%.4g, %.4g] (1.5×IQR)", o.Name, o.IQRCount, o.LowFence, o.HighFence))
			if o.MaxAbsZ > 0 {
				b.WriteString(fmt.Sprintf("; %d above |z|>%.1f (max |z|≈%.2f)", o.MADCount, o.Threshold, o.MaxAbsZ))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeCounts(b *strings.Builder, counts []dataset.ColumnCount) {
	total := 0
	for _, c := range counts {
		b.WriteString(fmt.Sprintf("- %s: %d\n", safeName(c.Column), c.Count))
		total += c.Count
	}
	b.WriteString(fmt.Sprintf("total: %d\n", total))
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| ")
	for i, h := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(h))
	}
	b.WriteString(" |\n| ")
	for i := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

func num(x float64) string {
	if math.IsNaN(x) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", x)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
