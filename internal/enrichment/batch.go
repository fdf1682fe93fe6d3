package enrichment

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/keylock"
)

// DefaultConcurrency bounds batch runs when the caller gives no limit.
const DefaultConcurrency = 4

// ResultHandler receives each finished run. A non-nil error stops the batch.
type ResultHandler func(ctx context.Context, original *domain.Festival, res Result) error

// RunBatch enriches festivals with at most limit runs in flight. Runs on the
// same festival ID are serialized through locks, so a batch may share a
// Locker with single-record callers. handle is called from the worker
// goroutines and must be safe for concurrent use.
func (p *Pipeline) RunBatch(ctx context.Context, festivals []*domain.Festival, limit int, locks *keylock.Locker, handle ResultHandler) error {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if locks == nil {
		locks = keylock.New()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, f := range festivals {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			unlock := locks.Lock(f.ID)
			defer unlock()

			res := p.Run(gctx, f)
			return handle(gctx, f, res)
		})
	}
	return g.Wait()
}
