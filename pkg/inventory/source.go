package inventory

import (
	"context"

	"github.com/aretw0/findsimulator/pkg/domain"
)

// Catalog names used in logs, metrics and cache keys.
const (
	CatalogDevices = "devices"
	CatalogPairs   = "pairs"
)

// Source provides inventory snapshots.
type Source interface {
	Devices(ctx context.Context) (domain.DeviceCatalog, error)
	Pairs(ctx context.Context) (domain.PairCatalog, error)
}

// Static is a Source over fixed snapshots.
type Static struct {
	DeviceCatalog domain.DeviceCatalog
	PairCatalog   domain.PairCatalog
}

// Devices returns the fixed device catalog.
func (s Static) Devices(ctx context.Context) (domain.DeviceCatalog, error) {
	return s.DeviceCatalog, ctx.Err()
}

// Pairs returns the fixed pair catalog.
func (s Static) Pairs(ctx context.Context) (domain.PairCatalog, error) {
	return s.PairCatalog, ctx.Err()
}
