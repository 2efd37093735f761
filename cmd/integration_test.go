package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCmd executes the root command with args and returns stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	for _, name := range []string{"out-dir", "output", "html", "delimiter", "sheet-name", "sheet-index", "sample-rows", "no-charts", "width", "height", "workers"} {
		if fl := analyzeCmd.Flags().Lookup(name); fl != nil {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		}
	}
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	fixture, err := filepath.Abs(filepath.Join("testdata", "listeners.csv"))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	b, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, "listeners.csv"), b, 0o644); err != nil {
		t.Fatalf("copy fixture: %v", err)
	}
	// run from HOME so no stray .env is picked up
	if err := os.Chdir(home); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func TestCLI_AnalyzeRendersChartsAndReport(t *testing.T) {
	home := isolateHome(t)
	outDir := filepath.Join(home, "out")
	stdout, err := runCmd(t, "analyze", filepath.Join(home, "listeners.csv"), "--out-dir", outDir, "--width", "400", "--height", "300", "--workers", "2")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	for _, want := range []string{
		"[LISTENER DATASET REPORT]",
		"File: listeners.csv",
		"[DATASET PREVIEW]",
		"Listening_Time_MorningAfternoonNight",
		"duplicates removed: 1",
		"[OUTLIERS]",
		"✓ Rendered 12 charts to " + outDir,
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}
	for _, name := range []string{"dist_Repeat_Song_Rate_.png", "obj1_platforms.png", "obj2_age_listening_time.png", "obj4_songs_liked.png", "obj5_country_genres.png", "manifest.yaml"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestCLI_AnalyzeNoChartsToFile(t *testing.T) {
	home := isolateHome(t)
	report := filepath.Join(home, "report.md")
	page := filepath.Join(home, "report.html")
	stdout, err := runCmd(t, "analyze", filepath.Join(home, "listeners.csv"), "--no-charts", "-o", report, "--html", page, "--sample-rows", "0")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(stdout, "✓ Wrote report to "+report) || strings.Contains(stdout, "Rendered") {
		t.Fatalf("unexpected stdout:\n%s", stdout)
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(b), "[SUMMARY STATISTICS (NUMERICAL)]") || strings.Contains(string(b), "[DATASET PREVIEW]") {
		t.Fatalf("unexpected report:\n%s", b)
	}
	html, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(html), "<h2>CLEANING</h2>") {
		t.Fatalf("unexpected html:\n%s", html)
	}
	if _, err := os.Stat(filepath.Join(home, "charts")); !os.IsNotExist(err) {
		t.Fatalf("charts dir should not exist with --no-charts")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolateHome(t)
	if _, err := runCmd(t, "config", "set", "chart_width", "1024"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".listenlens", "config.yaml")); err != nil {
		t.Fatalf("config file not saved: %v", err)
	}
	stdout, err := runCmd(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(stdout, "chart_width: 1024") || !strings.Contains(stdout, "delimiter: (auto)") {
		t.Fatalf("unexpected config:\n%s", stdout)
	}
	if _, err := runCmd(t, "config", "set", "chart_width", "5"); err == nil {
		t.Fatalf("expected validation error for chart_width=5")
	}
	if _, err := runCmd(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestCLI_AnalyzeErrors(t *testing.T) {
	home := isolateHome(t)
	if _, err := runCmd(t, "analyze", filepath.Join(home, "missing.csv"), "--no-charts"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := runCmd(t, "analyze", filepath.Join(home, "listeners.csv"), "--no-charts", "--delimiter", "::"); err == nil {
		t.Fatalf("expected error for bad delimiter")
	}
	if _, err := runCmd(t, "analyze", filepath.Join(home, "listeners.csv"), "--width", "10"); err == nil {
		t.Fatalf("expected error for tiny width")
	}
}
