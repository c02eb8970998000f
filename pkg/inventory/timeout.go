package inventory

import (
	"context"
	"time"

	"github.com/aretw0/findsimulator/pkg/domain"
)

// Bounded limits every fetch of the wrapped source to a fixed duration.
type Bounded struct {
	Source  Source
	Timeout time.Duration
}

// WithTimeout wraps source so that each fetch is cancelled after d.
// A non-positive d returns source unchanged.
func WithTimeout(source Source, d time.Duration) Source {
	if d <= 0 {
		return source
	}
	return Bounded{Source: source, Timeout: d}
}

func (b Bounded) Devices(ctx context.Context) (domain.DeviceCatalog, error) {
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()
	return b.Source.Devices(ctx)
}

func (b Bounded) Pairs(ctx context.Context) (domain.PairCatalog, error) {
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()
	return b.Source.Pairs(ctx)
}
