package dynamo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Build creates one independent simulator for a sweep entry.
type Build func() (*Simulator, error)

// RunSweep runs every build concurrently with the same config. Results keep
// the order of builds. The first failure cancels the rest.
func RunSweep(ctx context.Context, builds []Build, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(builds))

	g, ctx := errgroup.WithContext(ctx)
	for i, build := range builds {
		g.Go(func() error {
			s, err := build()
			if err != nil {
				return fmt.Errorf("sweep run %d: %w", i, err)
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("sweep run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
