package page

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type namedRead struct {
	name string
	read Fetch
}

// Dashboard runs several reads in parallel and folds their results into
// one summary S. Reads write into variables the fold closes over.
type Dashboard[S any] struct {
	name  string
	reads []namedRead
	fold  func() S
	log   *zap.Logger

	mu      sync.Mutex
	summary S
	loading bool
}

func NewDashboard[S any](name string, fold func() S, log *zap.Logger) *Dashboard[S] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dashboard[S]{name: name, fold: fold, log: log, loading: true}
}

// Read adds a named fetch to every Load.
func (d *Dashboard[S]) Read(name string, fetch Fetch) *Dashboard[S] {
	d.reads = append(d.reads, namedRead{name, fetch})
	return d
}

// Load runs every read and folds. On failure the summary is reset to its
// zero value and the error names the failed read.
func (d *Dashboard[S]) Load(ctx context.Context) (S, error) {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range d.reads {
		g.Go(func() error {
			if err := r.read(gctx); err != nil {
				return fmt.Errorf("%s: %w", r.name, err)
			}
			return nil
		})
	}
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if err != nil {
		d.log.Error("dashboard load failed", zap.String("dashboard", d.name), zap.Error(err))
		var zero S
		d.summary = zero
		return zero, err
	}
	d.summary = d.fold()
	return d.summary, nil
}

func (d *Dashboard[S]) Summary() S {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary
}

func (d *Dashboard[S]) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}
