// Package pipeline runs the listener analysis end to end: load, clean, derive,
// describe and chart.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/KaramelBytes/listenlens/internal/analysis"
	"github.com/KaramelBytes/listenlens/internal/charts"
	"github.com/KaramelBytes/listenlens/internal/dataset"
	"github.com/KaramelBytes/listenlens/internal/features"
	"github.com/KaramelBytes/listenlens/internal/logging"
	"github.com/google/uuid"
)

// Options configures one run.
type Options struct {
	Input      string
	Load       dataset.LoadOptions
	OutDir     string
	Size       charts.Size
	Workers    int
	SampleRows int
	NoCharts   bool
	// Report receives the text report; nil discards it.
	Report io.Writer
	Logger *slog.Logger
}

// Result is what a run produced.
type Result struct {
	RunID    string
	Report   *analysis.Report
	Table    *dataset.Table
	Figures  []charts.Figure
	Outputs  []charts.Output
	Manifest string
}

// Run executes the pipeline once.
func Run(ctx context.Context, opt Options) (*Result, error) {
	if opt.Input == "" {
		return nil, errors.New("no input file")
	}
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	if opt.Size.Width <= 0 || opt.Size.Height <= 0 {
		opt.Size = charts.DefaultSize
	}
	res := &Result{RunID: uuid.NewString()}
	ctx = logging.WithRunID(ctx, res.RunID)
	log.InfoContext(ctx, "run started", "input", opt.Input)

	var raw, tbl *dataset.Table
	var clean analysis.CleanStats
	err := stage(ctx, log, "load", func() error {
		t, err := dataset.Load(opt.Input, opt.Load)
		if err != nil {
			return err
		}
		t.NormalizeColumnNames()
		raw, tbl = t, t.Clone()
		clean.RowsLoaded = t.Len()
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.DebugContext(ctx, "table loaded", "rows", raw.Len(), "columns", len(raw.Columns()), "missing", raw.TotalMissing())

	err = stage(ctx, log, "clean", func() error {
		imp := tbl.Impute()
		clean.Imputed, clean.Skipped = imp.Filled, imp.Skipped
		clean.MissingAfter = tbl.MissingCounts()
		clean.Duplicates = tbl.DropDuplicates()
		for _, name := range imp.Skipped {
			log.WarnContext(ctx, "column has no observed values", "column", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := stage(ctx, log, "features", func() error { return features.Derive(tbl) }); err != nil {
		return nil, err
	}
	res.Table = tbl

	err = stage(ctx, log, "describe", func() error {
		aopt := analysis.DefaultOptions()
		aopt.SampleRows = opt.SampleRows
		res.Report = analysis.Describe(raw, tbl, clean, aopt)
		res.Report.RunID = res.RunID
		res.Report.Warnings = append(res.Report.Warnings, ageWarnings(tbl)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if opt.Report != nil {
		if _, err := io.WriteString(opt.Report, res.Report.Markdown()); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	}
	if opt.NoCharts {
		log.InfoContext(ctx, "run finished", "charts", 0)
		return res, nil
	}

	err = stage(ctx, log, "charts", func() error {
		figs, err := charts.Build(tbl)
		if err != nil {
			return fmt.Errorf("build charts: %w", err)
		}
		r := &charts.Renderer{Dir: opt.OutDir, Size: opt.Size, Workers: opt.Workers, Logger: log}
		outs, err := r.Render(ctx, figs)
		if err != nil {
			return err
		}
		res.Figures, res.Outputs = figs, outs
		m := charts.NewManifest(res.RunID, raw.Name, opt.Size, figs, outs)
		res.Manifest, err = charts.WriteManifest(opt.OutDir, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "run finished", "charts", len(res.Outputs), "dir", opt.OutDir)
	return res, nil
}

func stage(ctx context.Context, log *slog.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	if err := fn(); err != nil {
		log.ErrorContext(ctx, "stage failed", "stage", name, "error", err)
		return err
	}
	log.InfoContext(ctx, "stage done", "stage", name, "elapsed", time.Since(start))
	return nil
}

// ageWarnings notes ages that fall outside every band and bands nobody falls into.
func ageWarnings(t *dataset.Table) []string {
	age, err := t.ColumnOf(features.ColAge, dataset.Numeric)
	if err != nil {
		return nil
	}
	group, err := t.ColumnOf(features.ColAgeGroup, dataset.Categorical)
	if err != nil {
		return nil
	}
	var out []string
	outside := 0
	for i := 0; i < t.Len(); i++ {
		if !age.IsMissing(i) && group.IsMissing(i) {
			outside++
		}
	}
	if outside > 0 {
		out = append(out, fmt.Sprintf("%d rows have Age outside (%g, %g]; %s left empty",
			outside, features.AgeEdges[0], features.AgeEdges[len(features.AgeEdges)-1], features.ColAgeGroup))
	}
	seen := map[string]bool{}
	for _, v := range group.Strings() {
		seen[v] = true
	}
	for _, label := range features.AgeLabels {
		if !seen[label] {
			out = append(out, fmt.Sprintf("age band %s has no listeners", label))
		}
	}
	return out
}
