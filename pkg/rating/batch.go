package rating

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ComputeBatch rates independent matches concurrently using at most workers
// goroutines. Results keep input order. The first failure cancels the rest
// and is returned with the index of the offending descriptor.
func ComputeBatch(ctx context.Context, engine *Engine, descriptors []MatchDescriptor, workers int) ([][]RatingDelta, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([][]RatingDelta, len(descriptors))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range descriptors {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			deltas, err := engine.ComputeDelta(descriptors[i])
			if err != nil {
				return fmt.Errorf("match %d (%s): %w", i, descriptors[i].ID, err)
			}
			results[i] = deltas
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
