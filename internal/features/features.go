// Package features derives the engineered columns used by the listener report.
package features

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/listenlens/internal/analysis"
	"github.com/KaramelBytes/listenlens/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Source columns, after name normalization.
const (
	ColAge            = "Age"
	ColCountry        = "Country"
	ColPlatform       = "Streaming_Platform"
	ColGenre          = "Top_Genre"
	ColMinutes        = "Minutes_Streamed_Per_Day"
	ColSongsLiked     = "Number_of_Songs_Liked"
	ColSubscription   = "Subscription_Type"
	ColListeningTime  = "Listening_Time_MorningAfternoonNight"
	ColDiscoverWeekly = "Discover_Weekly_Engagement_"
	ColRepeatRate     = "Repeat_Song_Rate_"
)

// Derived columns.
const (
	ColHighEngagement = "High_Engagement"
	ColMinutesNorm    = "Stream_Minutes_Normalized"
	ColHeavyLiker     = "Heavy_Liker"
	ColAgeGroup       = "Age_Group"
	ColTopCountry     = "Top_Country"
)

const (
	HighEngagementThreshold = 70.0
	HeavyLikerThreshold     = 50.0
	TopCountries            = 5
)

// AgeEdges are right-closed bin edges: (10,18], (18,25], ...
var AgeEdges = []float64{10, 18, 25, 35, 50, 65}

// AgeLabels name the bins in AgeEdges order.
var AgeLabels = []string{"Teen (13-18)", "Young Adult (19-25)", "Adult (26-35)", "Mid-age (36-50)", "Senior (51+)"}

// Derive adds every engineered column to t.
func Derive(t *dataset.Table) error {
	steps := []struct {
		name string
		fn   func(*dataset.Table) (*dataset.Column, error)
	}{
		{ColHighEngagement, HighEngagement},
		{ColMinutesNorm, NormalizedMinutes},
		{ColHeavyLiker, HeavyLiker},
		{ColAgeGroup, AgeGroup},
		{ColTopCountry, TopCountry},
	}
	for _, s := range steps {
		c, err := s.fn(t)
		if err != nil {
			return fmt.Errorf("derive %s: %w", s.name, err)
		}
		if err := t.AddColumn(c); err != nil {
			return fmt.Errorf("derive %s: %w", s.name, err)
		}
	}
	return nil
}

// HighEngagement flags Discover Weekly engagement above 70.
func HighEngagement(t *dataset.Table) (*dataset.Column, error) {
	return threshold(t, ColDiscoverWeekly, ColHighEngagement, HighEngagementThreshold)
}

// HeavyLiker flags listeners with more than 50 liked songs.
func HeavyLiker(t *dataset.Table) (*dataset.Column, error) {
	return threshold(t, ColSongsLiked, ColHeavyLiker, HeavyLikerThreshold)
}

// threshold yields x > limit; missing inputs compare false.
func threshold(t *dataset.Table, src, dst string, limit float64) (*dataset.Column, error) {
	c, err := t.ColumnOf(src, dataset.Numeric)
	if err != nil {
		return nil, err
	}
	out := make([]bool, c.Len())
	for i := range out {
		if x, ok := c.Float(i); ok {
			out[i] = x > limit
		}
	}
	return dataset.NewBool(dst, out, nil), nil
}

// NormalizedMinutes z-scores daily streaming minutes with the sample standard deviation.
func NormalizedMinutes(t *dataset.Table) (*dataset.Column, error) {
	c, err := t.ColumnOf(ColMinutes, dataset.Numeric)
	if err != nil {
		return nil, err
	}
	obs := c.Floats()
	mean, std := math.NaN(), math.NaN()
	if len(obs) > 0 {
		mean = stat.Mean(obs, nil)
	}
	if len(obs) > 1 {
		std = stat.StdDev(obs, nil)
	}
	out := make([]float64, c.Len())
	for i := range out {
		x, ok := c.Float(i)
		if !ok || std == 0 || math.IsNaN(std) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (x - mean) / std
	}
	return dataset.NewNumeric(ColMinutesNorm, out, nil), nil
}

// AgeGroup buckets Age into right-closed bands; ages outside (10, 65] are missing.
func AgeGroup(t *dataset.Table) (*dataset.Column, error) {
	c, err := t.ColumnOf(ColAge, dataset.Numeric)
	if err != nil {
		return nil, err
	}
	out := make([]string, c.Len())
	valid := make([]bool, c.Len())
	for i := range out {
		x, ok := c.Float(i)
		if !ok {
			continue
		}
		if idx := ageBin(x); idx >= 0 {
			out[i] = AgeLabels[idx]
			valid[i] = true
		}
	}
	col := dataset.NewCategorical(ColAgeGroup, out, valid)
	col.Levels = AgeLabels
	return col, nil
}

func ageBin(x float64) int {
	if x <= AgeEdges[0] || x > AgeEdges[len(AgeEdges)-1] {
		return -1
	}
	for i := 1; i < len(AgeEdges); i++ {
		if x <= AgeEdges[i] {
			return i - 1
		}
	}
	return -1
}

// TopCountry flags rows whose country is among the five most frequent.
func TopCountry(t *dataset.Table) (*dataset.Column, error) {
	c, err := t.ColumnOf(ColCountry, dataset.Categorical)
	if err != nil {
		return nil, err
	}
	top := make(map[string]struct{}, TopCountries)
	for _, name := range analysis.Labels(analysis.TopN(analysis.ValueCounts(c.Strings()), TopCountries)) {
		top[name] = struct{}{}
	}
	out := make([]bool, c.Len())
	for i := range out {
		if s, ok := c.Str(i); ok {
			_, out[i] = top[s]
		}
	}
	return dataset.NewBool(ColTopCountry, out, nil), nil
}
