package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/KaramelBytes/listenlens/internal/charts"
	cfgpkg "github.com/KaramelBytes/listenlens/internal/config"
	"github.com/KaramelBytes/listenlens/internal/dataset"
	"github.com/KaramelBytes/listenlens/internal/pipeline"
	"github.com/KaramelBytes/listenlens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutDir     string
	anaOutputPath string
	anaHTMLPath   string
	anaDelimiter  string
	anaSheetName  string
	anaSheetIndex int
	anaSampleRows int
	anaNoCharts   bool
	anaWidth      int
	anaHeight     int
	anaWorkers    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Clean a listener dataset, print statistics and render charts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *currentConfig()
		f := cmd.Flags()
		if f.Changed("out-dir") {
			c.OutputDir = anaOutDir
		}
		if f.Changed("delimiter") {
			c.Delimiter = anaDelimiter
		}
		if f.Changed("sample-rows") {
			c.SampleRows = anaSampleRows
		}
		if f.Changed("width") {
			c.ChartWidth = anaWidth
		}
		if f.Changed("height") {
			c.ChartHeight = anaHeight
		}
		if f.Changed("workers") {
			c.RenderWorkers = anaWorkers
		}
		if err := c.Validate(); err != nil {
			return err
		}
		delim, err := cfgpkg.ParseDelimiter(c.Delimiter)
		if err != nil {
			return err
		}

		var report bytes.Buffer
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		res, err := pipeline.Run(ctx, pipeline.Options{
			Input:      args[0],
			Load:       dataset.LoadOptions{Delimiter: delim, SheetName: anaSheetName, SheetIndex: anaSheetIndex},
			OutDir:     c.OutputDir,
			Size:       charts.Size{Width: c.ChartWidth, Height: c.ChartHeight},
			Workers:    c.RenderWorkers,
			SampleRows: c.SampleRows,
			NoCharts:   anaNoCharts,
			Report:     &report,
			Logger:     logger,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, report.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote report to %s\n", anaOutputPath)
		} else if _, err := io.Copy(out, &report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if anaHTMLPath != "" {
			if err := utils.SafeWriteFile(anaHTMLPath, res.Report.HTML()); err != nil {
				return fmt.Errorf("write html: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote HTML report to %s\n", anaHTMLPath)
		}
		for _, w := range res.Report.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", w)
		}
		if !anaNoCharts {
			fmt.Fprintf(out, "✓ Rendered %d charts to %s (manifest: %s)\n", len(res.Outputs), c.OutputDir, res.Manifest)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaOutDir, "out-dir", "", "directory for chart PNGs and manifest (overrides config output_dir)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the text report instead of stdout")
	analyzeCmd.Flags().StringVar(&anaHTMLPath, "html", "", "optional path to also write the report as an HTML page")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (auto by extension if omitted)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of preview rows in the report (0 disables)")
	analyzeCmd.Flags().BoolVar(&anaNoCharts, "no-charts", false, "skip chart rendering")
	analyzeCmd.Flags().IntVar(&anaWidth, "width", 800, "chart width in pixels")
	analyzeCmd.Flags().IntVar(&anaHeight, "height", 400, "chart height in pixels")
	analyzeCmd.Flags().IntVar(&anaWorkers, "workers", 4, "number of figures rendered concurrently")
}
