package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/findsimulator/pkg/domain"
)

// LoggingHooks logs every event at debug level, and failed lookups at warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnInventory: func(ctx context.Context, e *domain.InventoryEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "inventory_fetch", "catalog", e.Catalog, "duration", e.Duration, "error", e.Err)
				return
			}
			logger.DebugContext(ctx, "inventory_fetch", "catalog", e.Catalog, "duration", e.Duration)
		},
		OnLookup: func(ctx context.Context, e *domain.LookupEvent) {
			attrs := []any{"lookup", e.Lookup, "matches", e.Matches}
			if e.Platform != "" {
				attrs = append(attrs, "platform", e.Platform, "target", e.Target)
			}
			if e.Err != nil {
				logger.WarnContext(ctx, "lookup", append(attrs, "error", e.Err)...)
				return
			}
			logger.DebugContext(ctx, "lookup", attrs...)
		},
	}
}
