package sweep

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// CellFunc computes one cell from its row and column parameters.
type CellFunc func(row, col float64) float64

type Engine struct {
	workers int
	logger  *log.Logger
}

type Option func(*Engine)

// WithWorkers bounds the number of rows evaluated at once. n < 1 keeps the
// default of runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		workers: runtime.NumCPU(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Workers() int { return e.workers }

// ParallelFor runs fn for every index in [0, n) on the worker pool. The
// first error cancels the remaining indices.
func (e *Engine) ParallelFor(ctx context.Context, n int, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(idx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// gctx is always done after Wait; only the caller's context matters here.
	return ctx.Err()
}

// Grid returns z with z[i][j] = fn(rows[i], cols[j]).
func (e *Engine) Grid(ctx context.Context, rows, cols []float64, fn CellFunc) ([][]float64, error) {
	if len(rows) == 0 || len(cols) == 0 {
		return nil, fmt.Errorf("%w: grid needs non-empty axes, got %dx%d", ErrInvalidSweep, len(rows), len(cols))
	}

	z := make([][]float64, len(rows))
	err := e.ParallelFor(ctx, len(rows), func(i int) error {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = fn(rows[i], c)
		}
		z[i] = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return z, nil
}
