package charts

import (
	"fmt"

	"github.com/KaramelBytes/listenlens/internal/analysis"
	"github.com/KaramelBytes/listenlens/internal/dataset"
	"github.com/KaramelBytes/listenlens/internal/features"
)

// DistributionColumns get a histogram each.
var DistributionColumns = []string{
	features.ColMinutes,
	features.ColSongsLiked,
	features.ColDiscoverWeekly,
	features.ColRepeatRate,
}

// Build assembles every figure from the cleaned, feature-enriched table.
func Build(t *dataset.Table) ([]Figure, error) {
	figs, err := distributions(t)
	if err != nil {
		return nil, err
	}
	builders := []func(*dataset.Table) (Figure, error){
		popularity,
		listeningByAge,
		engagementBySubscription,
		outliers,
		countryGenres,
	}
	for _, b := range builders {
		f, err := b(t)
		if err != nil {
			return nil, err
		}
		figs = append(figs, f)
	}
	return figs, nil
}

func distributions(t *dataset.Table) ([]Figure, error) {
	out := make([]Figure, 0, len(DistributionColumns))
	for _, col := range DistributionColumns {
		vals, err := numeric(t, col)
		if err != nil {
			return nil, err
		}
		id := "dist_" + col
		title := "Distribution of " + col
		out = append(out, Figure{
			ID:     id,
			Title:  title,
			Panels: []Panel{&HistPanel{Name: id, Caption: title, XLabel: col, Values: vals, Color: "steelblue"}},
		})
	}
	return out, nil
}

func popularity(t *dataset.Table) (Figure, error) {
	platforms, err := labels(t, features.ColPlatform)
	if err != nil {
		return Figure{}, err
	}
	genres, err := labels(t, features.ColGenre)
	if err != nil {
		return Figure{}, err
	}
	return Figure{
		ID:    "obj1",
		Title: "Popular Platforms & Genres",
		Panels: []Panel{
			&CountBar{Name: "obj1_platforms", Caption: "Most Popular Streaming Platforms", Counts: analysis.ValueCounts(platforms), Palette: "viridis"},
			&CountBar{Name: "obj1_genres", Caption: "Most Popular Music Genres", Counts: analysis.ValueCounts(genres), Palette: "magma"},
		},
	}, nil
}

func listeningByAge(t *dataset.Table) (Figure, error) {
	pairs, err := pairsOf(t, features.ColAgeGroup, features.ColListeningTime)
	if err != nil {
		return Figure{}, err
	}
	return Figure{
		ID:    "obj2",
		Title: "Listening Habits by Age Group",
		Panels: []Panel{&GroupedBar{
			Name:    "obj2_age_listening_time",
			Caption: "Preferred Listening Time by Age Group",
			XLabel:  "Age Group",
			Counts:  analysis.CrossTabulate(pairs, features.AgeLabels),
			Palette: "Set2",
		}},
	}, nil
}

func engagementBySubscription(t *dataset.Table) (Figure, error) {
	engagement, err := groupsOf(t, features.ColSubscription, features.ColDiscoverWeekly)
	if err != nil {
		return Figure{}, err
	}
	repeat, err := groupsOf(t, features.ColSubscription, features.ColRepeatRate)
	if err != nil {
		return Figure{}, err
	}
	return Figure{
		ID:    "obj3",
		Title: "Engagement by Subscription Type",
		Panels: []Panel{
			&BoxPanel{Name: "obj3_engagement", Caption: "Discover Weekly Engagement by Subscription Type", XLabel: features.ColSubscription, YLabel: "Engagement (%)", Groups: engagement, Palette: "coolwarm"},
			&BoxPanel{Name: "obj3_repeat_rate", Caption: "Repeat Song Rate by Subscription Type", XLabel: features.ColSubscription, YLabel: "Repeat Rate (%)", Groups: repeat, Palette: "coolwarm"},
		},
	}, nil
}

func outliers(t *dataset.Table) (Figure, error) {
	minutes, err := numeric(t, features.ColMinutes)
	if err != nil {
		return Figure{}, err
	}
	liked, err := numeric(t, features.ColSongsLiked)
	if err != nil {
		return Figure{}, err
	}
	return Figure{
		ID:    "obj4",
		Title: "Outlier Detection",
		Panels: []Panel{
			&BoxPanel{Name: "obj4_minutes", Caption: "Outliers in Minutes Streamed Per Day", YLabel: features.ColMinutes, Groups: []analysis.Group{{Key: features.ColMinutes, Values: minutes}}, Palette: "skyblue"},
			&BoxPanel{Name: "obj4_songs_liked", Caption: "Outliers in Number of Songs Liked", YLabel: features.ColSongsLiked, Groups: []analysis.Group{{Key: features.ColSongsLiked, Values: liked}}, Palette: "salmon"},
		},
	}, nil
}

func countryGenres(t *dataset.Table) (Figure, error) {
	top, err := t.ColumnOf(features.ColTopCountry, dataset.Bool)
	if err != nil {
		return Figure{}, err
	}
	inTop := t.Filter(func(i int) bool {
		v, ok := top.Bool(i)
		return ok && v
	})
	pairs, err := pairsOf(inTop, features.ColCountry, features.ColGenre)
	if err != nil {
		return Figure{}, err
	}
	return Figure{
		ID:    "obj5",
		Title: "Country-wise Genre Preferences",
		Panels: []Panel{&GroupedBar{
			Name:         "obj5_country_genres",
			Caption:      "Top Genres by Country (Top 5 Countries)",
			XLabel:       features.ColCountry,
			Counts:       analysis.CrossTabulate(pairs, nil),
			Palette:      "tab20",
			RotateLabels: true,
		}},
	}, nil
}

func numeric(t *dataset.Table, name string) ([]float64, error) {
	c, err := t.ColumnOf(name, dataset.Numeric)
	if err != nil {
		return nil, fmt.Errorf("chart input: %w", err)
	}
	vals := c.Floats()
	if len(vals) == 0 {
		return nil, fmt.Errorf("chart input %s: %w", name, dataset.ErrNoObservations)
	}
	return vals, nil
}

// labels returns the present values of any column as strings.
func labels(t *dataset.Table, name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, fmt.Errorf("chart input: %w", err)
	}
	vals := c.Strings()
	if len(vals) == 0 {
		return nil, fmt.Errorf("chart input %s: %w", name, dataset.ErrNoObservations)
	}
	return vals, nil
}

// pairsOf collects (x, hue) for rows where both are present.
func pairsOf(t *dataset.Table, x, hue string) ([]analysis.Pair, error) {
	xc, err := t.Column(x)
	if err != nil {
		return nil, fmt.Errorf("chart input: %w", err)
	}
	hc, err := t.Column(hue)
	if err != nil {
		return nil, fmt.Errorf("chart input: %w", err)
	}
	var out []analysis.Pair
	for i := 0; i < t.Len(); i++ {
		if xc.IsMissing(i) || hc.IsMissing(i) {
			continue
		}
		out = append(out, analysis.Pair{X: xc.Format(i), Hue: hc.Format(i)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("chart input %s by %s: %w", x, hue, dataset.ErrNoObservations)
	}
	return out, nil
}

// groupsOf splits the numeric column by the key column, skipping rows missing either.
func groupsOf(t *dataset.Table, key, value string) ([]analysis.Group, error) {
	kc, err := t.Column(key)
	if err != nil {
		return nil, fmt.Errorf("chart input: %w", err)
	}
	vc, err := t.ColumnOf(value, dataset.Numeric)
	if err != nil {
		return nil, fmt.Errorf("chart input: %w", err)
	}
	var keys []string
	var vals []float64
	for i := 0; i < t.Len(); i++ {
		v, ok := vc.Float(i)
		if !ok || kc.IsMissing(i) {
			continue
		}
		keys = append(keys, kc.Format(i))
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("chart input %s by %s: %w", value, key, dataset.ErrNoObservations)
	}
	return analysis.GroupValues(keys, vals), nil
}
