package findsimulator

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/filter"
	"github.com/aretw0/findsimulator/pkg/inventory"
	"github.com/aretw0/findsimulator/pkg/pairing"
	"github.com/aretw0/findsimulator/pkg/selector"
)

// Finder is the high-level entry point of the library.
// Every call fetches one snapshot from the source and works on it alone, so a
// Finder is safe for concurrent use as long as its source is.
type Finder struct {
	source inventory.Source
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	policy selector.Policy
}

// Option defines a functional option for configuring the Finder.
type Option func(*Finder)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		f.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(f *Finder) {
		f.hooks = f.hooks.Merge(hooks)
	}
}

// WithSelectorPolicy chooses how "latest" minor without a major is handled.
// The default is selector.PolicyLenient.
func WithSelectorPolicy(policy selector.Policy) Option {
	return func(f *Finder) {
		f.policy = policy
	}
}

// New creates a Finder reading from source.
func New(source inventory.Source, opts ...Option) *Finder {
	f := &Finder{
		source: source,
		policy: selector.PolicyLenient,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f
}

// Match is one selected device with the runtime it belongs to.
type Match struct {
	Version domain.RuntimeVersion `json:"version"`
	Device  domain.Device         `json:"device"`
}

// Result is the outcome of Find. Groups are sorted newest version first and
// devices by name, so First is deterministic.
type Result struct {
	Platform string                `json:"platform"`
	Target   selector.Target       `json:"target"`
	Groups   []domain.RuntimeGroup `json:"groups"`
}

// Matches flattens the groups in order.
func (r Result) Matches() []Match {
	var out []Match
	for _, g := range r.Groups {
		for _, d := range g.Devices {
			out = append(out, Match{Version: g.Version, Device: d})
		}
	}
	return out
}

// First returns the best match.
func (r Result) First() (Match, bool) {
	for _, g := range r.Groups {
		if len(g.Devices) > 0 {
			return Match{Version: g.Version, Device: g.Devices[0]}, true
		}
	}
	return Match{}, false
}

// Find resolves the query's version selectors against the installed runtimes
// and returns the matching devices. An empty result is a KindNoMatch error.
func (f *Finder) Find(ctx context.Context, q Query) (Result, error) {
	result := Result{Platform: q.Platform}

	catalog, err := f.fetchDevices(ctx)
	if err != nil {
		f.emitLookup(ctx, "devices", q.Platform, "", 0, err)
		return result, err
	}

	result.Target, err = selector.Resolve(q.Versions, q.Platform, domain.EnabledGroups(catalog.Groups), f.policy)
	if err != nil {
		f.emitLookup(ctx, "devices", q.Platform, "", 0, err)
		return result, err
	}

	result.Groups = filter.Apply(catalog.Groups, filter.Criteria{
		Platform: q.Platform,
		Target:   result.Target,
		Name:     q.Name,
		Pattern:  q.Pattern,
	})
	filter.Sort(result.Groups)

	matches := 0
	for _, g := range result.Groups {
		matches += len(g.Devices)
	}
	if matches == 0 {
		err = domain.NewError(domain.KindNoMatch, "no device found for %s %s", q.Platform, result.Target)
	}
	f.emitLookup(ctx, "devices", q.Platform, result.Target.String(), matches, err)
	return result, err
}

// FindPairs returns the phones of available phone/watch pairs whose name
// satisfies name, sorted by name. An empty result is a KindNoMatch error.
func (f *Finder) FindPairs(ctx context.Context, name filter.Matcher) ([]domain.Device, error) {
	start := time.Now()
	catalog, err := f.source.Pairs(ctx)
	f.emitInventory(ctx, inventory.CatalogPairs, time.Since(start), err)
	if err != nil {
		err = domain.WrapError(domain.KindUnavailableInventory, err, "failed to list device pairs")
		f.emitLookup(ctx, "pairs", "", "", 0, err)
		return nil, err
	}

	phones := pairing.Filter(catalog.Pairs, name)
	pairing.Sort(phones)

	if len(phones) == 0 {
		err = domain.NewError(domain.KindNoMatch, "no available phone/watch pair found")
	}
	f.emitLookup(ctx, "pairs", "", "", len(phones), err)
	return phones, err
}

// Devices returns the raw device catalog of the underlying source.
func (f *Finder) Devices(ctx context.Context) (domain.DeviceCatalog, error) {
	return f.fetchDevices(ctx)
}

// Pairs returns the raw pair catalog of the underlying source.
func (f *Finder) Pairs(ctx context.Context) (domain.PairCatalog, error) {
	start := time.Now()
	catalog, err := f.source.Pairs(ctx)
	f.emitInventory(ctx, inventory.CatalogPairs, time.Since(start), err)
	if err != nil {
		return catalog, domain.WrapError(domain.KindUnavailableInventory, err, "failed to list device pairs")
	}
	return catalog, nil
}

func (f *Finder) fetchDevices(ctx context.Context) (domain.DeviceCatalog, error) {
	start := time.Now()
	catalog, err := f.source.Devices(ctx)
	f.emitInventory(ctx, inventory.CatalogDevices, time.Since(start), err)
	if err != nil {
		return catalog, domain.WrapError(domain.KindUnavailableInventory, err, "failed to list devices")
	}
	f.logger.Debug("Fetched device inventory", "runtimes", len(catalog.Groups))
	return catalog, nil
}

func (f *Finder) emitInventory(ctx context.Context, catalog string, d time.Duration, err error) {
	if f.hooks.OnInventory == nil {
		return
	}
	f.hooks.OnInventory(ctx, &domain.InventoryEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventInventory},
		Catalog:   catalog,
		Duration:  d,
		Err:       err,
	})
}

func (f *Finder) emitLookup(ctx context.Context, lookup, platform, target string, matches int, err error) {
	if f.hooks.OnLookup == nil {
		return
	}
	f.hooks.OnLookup(ctx, &domain.LookupEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventLookup},
		Lookup:    lookup,
		Platform:  platform,
		Target:    target,
		Matches:   matches,
		Err:       err,
	})
}
