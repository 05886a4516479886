package distort

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// bandsPerWorker controls how finely the rows are split between workers.
const bandsPerWorker = 4

// executor runs a band function over disjoint destination row ranges.
type executor struct {
	strategy Strategy
	workers  int
}

// newExecutor picks the execution strategy once, when the kernel is built.
func newExecutor(kernel string, c config) executor {
	e := executor{strategy: c.strategy, workers: c.workers}
	if e.strategy == Parallel && e.workers == 1 {
		e.strategy = Sequential
	}
	if e.strategy == Sequential {
		e.workers = 1
	}
	Logger().Debug("distort: execution strategy",
		"kernel", kernel,
		"strategy", e.strategy.String(),
		"workers", e.workers,
	)
	return e
}

// rows calls fn for row bands covering [top, bottom). The context is
// checked before each band; the first error cancels the remaining bands.
func (e executor) rows(ctx context.Context, top, bottom int, fn func(y0, y1 int)) error {
	n := bottom - top
	if n <= 0 {
		return ctx.Err()
	}
	bands := e.workers * bandsPerWorker
	if bands > n {
		bands = n
	}
	size := (n + bands - 1) / bands
	Logger().Debug("distort: row bands", "rows", n, "bands", bands, "strategy", e.strategy.String())

	if e.strategy == Sequential {
		for y := top; y < bottom; y += size {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(y, min(y+size, bottom))
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for y := top; y < bottom; y += size {
		y0, y1 := y, min(y+size, bottom)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
