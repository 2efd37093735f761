package charts

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/listenlens/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Output is one PNG written to disk.
type Output struct {
	Figure string
	Panel  string
	Title  string
	Path   string
}

// Renderer writes figures to Dir as PNG files, several figures at a time.
type Renderer struct {
	Dir     string
	Size    Size
	Workers int
	Logger  *slog.Logger
}

// Render draws every panel of figs. The first failure cancels figures that have not
// started; outputs are returned in figure order.
func (r *Renderer) Render(ctx context.Context, figs []Figure) ([]Output, error) {
	if err := utils.EnsureDir(r.Dir); err != nil {
		return nil, err
	}
	size := r.Size
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	results := make([][]Output, len(figs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, fig := range figs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			for _, p := range fig.Panels {
				var buf bytes.Buffer
				if err := p.Render(&buf, size); err != nil {
					return fmt.Errorf("render %s: %w", fig.ID, err)
				}
				path := filepath.Join(r.Dir, p.File()+".png")
				if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
					return fmt.Errorf("save %s: %w", p.File(), err)
				}
				results[i] = append(results[i], Output{Figure: fig.ID, Panel: p.File(), Title: p.Title(), Path: path})
			}
			log.DebugContext(ctx, "figure rendered", "figure", fig.ID, "panels", len(fig.Panels), "elapsed", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []Output
	for _, rs := range results {
		out = append(out, rs...)
	}
	return out, nil
}
