package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	// keep a stray .env in the package dir from leaking into the test
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "charts", c.OutputDir)
	assert.Equal(t, 800, c.ChartWidth)
	assert.Equal(t, 400, c.ChartHeight)
	assert.Equal(t, 5, c.SampleRows)
	assert.Equal(t, 4, c.RenderWorkers)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, "", c.Delimiter)
}

func TestSaveLoadRoundTripAndEnvOverride(t *testing.T) {
	home := isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Set("chart_width", "1024"))
	require.NoError(t, c.Set("delimiter", "tab"))
	require.NoError(t, Save(c, ""))

	_, err = os.Stat(filepath.Join(home, ".listenlens", "config.yaml"))
	require.NoError(t, err)

	t.Setenv("LISTENLENS_SAMPLE_ROWS", "12")
	back, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1024, back.ChartWidth)
	assert.Equal(t, "tab", back.Delimiter)
	assert.Equal(t, 12, back.SampleRows)
}

func TestLoad_DotEnv(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte("LISTENLENS_LOG_FORMAT=json\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("LISTENLENS_LOG_FORMAT") })
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.LogFormat)
}

func TestLoad_InvalidFileValues(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chart_width: 50\nrender_workers: 0\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ChartWidth")
	assert.Contains(t, err.Error(), "RenderWorkers")
}

func TestSet_RejectsBadValues(t *testing.T) {
	isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Error(t, c.Set("chart_height", "tall"))
	assert.Error(t, c.Set("chart_height", "10"))
	assert.Error(t, c.Set("log_level", "chatty"))
	assert.Error(t, c.Set("delimiter", "::"))
	assert.Error(t, c.Set("api_key", "x"))
	assert.Equal(t, 400, c.ChartHeight, "failed Set must not modify the config")

	v, err := c.Get("chart_height")
	require.NoError(t, err)
	assert.Equal(t, "400", v)
}

func TestParseDelimiter(t *testing.T) {
	for in, want := range map[string]rune{"": 0, ",": ',', ";": ';', "|": '|', "tab": '\t', `\t`: '\t'} {
		got, err := ParseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDelimiter("ab")
	assert.Error(t, err)
}
