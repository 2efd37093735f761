package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/listenlens/internal/analysis"
	"github.com/KaramelBytes/listenlens/internal/dataset"
	"github.com/KaramelBytes/listenlens/internal/features"
	"github.com/KaramelBytes/listenlens/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

var fixtureHeader = []string{
	"User_ID", features.ColAge, features.ColCountry, features.ColPlatform, features.ColGenre,
	features.ColMinutes, features.ColSongsLiked, features.ColSubscription, features.ColListeningTime,
	features.ColDiscoverWeekly, features.ColRepeatRate,
}

// listeners builds a deterministic 60-row table with every source column.
func listeners(t *testing.T) *dataset.Table {
	t.Helper()
	countries := []string{"USA", "India", "Brazil", "Germany", "Japan", "France"}
	platforms := []string{"Spotify", "Apple Music", "Deezer", "YouTube", "Tidal"}
	genres := []string{"Pop", "Rock", "Jazz", "Hip-Hop", "EDM", "Classical"}
	subs := []string{"Free", "Premium"}
	times := []string{"Morning", "Afternoon", "Night"}
	var rows [][]string
	for i := 0; i < 60; i++ {
		country := countries[i%len(countries)]
		if i%20 == 19 {
			country = "Canada"
		}
		rows = append(rows, []string{
			fmt.Sprintf("U%03d", i),
			fmt.Sprint(13 + (i*7)%50),
			country,
			platforms[i%len(platforms)],
			genres[(i*5)%len(genres)],
			fmt.Sprint(30 + (i*37)%400),
			fmt.Sprint((i * 13) % 100),
			subs[i%2],
			times[(i/2)%3],
			fmt.Sprintf("%.1f", float64((i*17)%100)),
			fmt.Sprintf("%.1f", float64((i*29)%90)+5),
		})
	}
	tbl, err := dataset.FromRecords("listeners.csv", fixtureHeader, rows)
	require.NoError(t, err)
	require.NoError(t, features.Derive(tbl))
	return tbl
}

func TestBuild_FigureLayout(t *testing.T) {
	figs, err := Build(listeners(t))
	require.NoError(t, err)
	require.Len(t, figs, 9)

	var files []string
	for _, f := range figs {
		for _, p := range f.Panels {
			files = append(files, p.File())
		}
	}
	assert.Equal(t, []string{
		"dist_Minutes_Streamed_Per_Day", "dist_Number_of_Songs_Liked",
		"dist_Discover_Weekly_Engagement_", "dist_Repeat_Song_Rate_",
		"obj1_platforms", "obj1_genres", "obj2_age_listening_time",
		"obj3_engagement", "obj3_repeat_rate", "obj4_minutes", "obj4_songs_liked",
		"obj5_country_genres",
	}, files)

	obj2 := figs[5].Panels[0].(*GroupedBar)
	assert.Equal(t, features.AgeLabels, obj2.Counts.Rows)

	obj5 := figs[8].Panels[0].(*GroupedBar)
	assert.Len(t, obj5.Counts.Rows, features.TopCountries)
	assert.NotContains(t, obj5.Counts.Rows, "Canada")
	assert.True(t, obj5.RotateLabels)

	obj3 := figs[6].Panels[0].(*BoxPanel)
	require.Len(t, obj3.Groups, 2)
	assert.Equal(t, "Free", obj3.Groups[0].Key)
}

func TestBuild_MissingColumn(t *testing.T) {
	tbl, err := dataset.FromRecords("x.csv", []string{features.ColMinutes}, [][]string{{"1"}})
	require.NoError(t, err)
	_, err = Build(tbl)
	assert.True(t, errors.Is(err, dataset.ErrColumnNotFound), "got %v", err)
}

func TestPanelsRenderPNG(t *testing.T) {
	figs, err := Build(listeners(t))
	require.NoError(t, err)
	for _, f := range figs {
		for _, p := range f.Panels {
			var buf bytes.Buffer
			require.NoError(t, p.Render(&buf, Size{Width: 400, Height: 300}), p.File())
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature), "%s is not a PNG", p.File())
		}
	}
}

func TestPanelsRejectEmptyInput(t *testing.T) {
	panels := []Panel{
		&CountBar{Name: "bar"},
		&GroupedBar{Name: "grouped"},
		&BoxPanel{Name: "box"},
		&HistPanel{Name: "hist"},
	}
	for _, p := range panels {
		err := p.Render(&bytes.Buffer{}, DefaultSize)
		assert.True(t, errors.Is(err, dataset.ErrNoObservations), "%s: %v", p.File(), err)
	}
}

func TestCountBar_SingleAndTiedCounts(t *testing.T) {
	cases := map[string][]analysis.ValueCount{
		"single": {{Value: "Spotify", Count: 7}},
		"tied":   {{Value: "Spotify", Count: 3}, {Value: "Tidal", Count: 3}},
		"zero":   {{Value: "Deezer", Count: 0}},
		"uneven": {{Value: "Spotify", Count: 4}, {Value: "Tidal", Count: 3}},
	}
	for name, counts := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			bar := &CountBar{Name: "platforms_" + name, Counts: counts, Palette: "viridis"}
			require.NoError(t, bar.Render(&buf, DefaultSize))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
		})
	}
}

func TestRenderer_WritesFilesAndManifest(t *testing.T) {
	figs, err := Build(listeners(t))
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "charts")
	var logs bytes.Buffer
	log, err := logging.New("debug", "text", &logs)
	require.NoError(t, err)
	r := &Renderer{Dir: dir, Size: Size{Width: 480, Height: 320}, Workers: 3, Logger: log}
	outs, err := r.Render(logging.WithRunID(context.Background(), "run-1"), figs)
	require.NoError(t, err)
	require.Len(t, outs, 12)
	rendered := 0
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if strings.Contains(line, "figure rendered") {
			rendered++
			assert.Contains(t, line, "run_id=run-1")
		}
	}
	assert.Equal(t, 9, rendered)
	assert.Equal(t, "dist_Minutes_Streamed_Per_Day", outs[0].Panel)
	for _, o := range outs {
		b, err := os.ReadFile(o.Path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(b, pngSignature), o.Path)
	}

	m := NewManifest("run-1", "listeners.csv", r.Size, figs, outs)
	path, err := WriteManifest(dir, m)
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Manifest
	require.NoError(t, yaml.Unmarshal(raw, &back))
	assert.Equal(t, "run-1", back.RunID)
	require.Len(t, back.Figures, 9)
	assert.Equal(t, []string{"obj3_engagement.png", "obj3_repeat_rate.png"}, back.Figures[6].Files)
	assert.Equal(t, 480, back.Size.Width)
}

func TestRenderer_CanceledContext(t *testing.T) {
	figs, err := Build(listeners(t))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&Renderer{Dir: t.TempDir(), Workers: 2}).Render(ctx, figs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPalette(t *testing.T) {
	set2 := Palette("Set2", 10)
	assert.Equal(t, set2[0], set2[8], "qualitative palettes cycle")
	v := Palette("viridis", 3)
	assert.NotEqual(t, v[0], v[2])
	assert.Equal(t, Named("salmon"), Palette("salmon", 2)[1])
	assert.Equal(t, Named("steelblue"), Named("no-such-color"))
	assert.Nil(t, Palette("viridis", 0))
}
