// Package filter selects the simulators of a device catalog that match a
// platform, a resolved OS version and name predicates.
package filter

import (
	"cmp"
	"slices"

	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/selector"
)

// Criteria is the full predicate set of one lookup.
type Criteria struct {
	Platform string
	Target   selector.Target
	// Name is applied client-side as a case-sensitive substring.
	Name Matcher
	// Pattern is usually a Regex matcher.
	Pattern Matcher
}

// Eligible is the group-level gate: enabled, same platform and matching version.
func (c Criteria) Eligible(g domain.RuntimeGroup) bool {
	return g.Enabled() &&
		domain.SamePlatform(c.Platform, g.Version.Platform) &&
		(c.Target.Major < 1 || g.Version.Major == c.Target.Major) &&
		(c.Target.Minor < 1 || g.Version.Minor == c.Target.Minor)
}

// Accepts is the device-level gate.
func (c Criteria) Accepts(d domain.Device) bool {
	return d.Available && c.Name.Match(d.Name) && c.Pattern.Match(d.Name)
}

// Apply returns the eligible groups, each holding only accepted devices.
// Groups left without devices are dropped. The input is not modified and the
// result is a fixed point: applying the same criteria again returns it unchanged.
func Apply(groups []domain.RuntimeGroup, c Criteria) []domain.RuntimeGroup {
	var out []domain.RuntimeGroup
	for _, g := range groups {
		if !c.Eligible(g) {
			continue
		}
		var devices []domain.Device
		for _, d := range g.Devices {
			if c.Accepts(d) {
				devices = append(devices, d)
			}
		}
		if len(devices) == 0 {
			continue
		}
		out = append(out, g.WithDevices(devices))
	}
	return out
}

// Sort orders groups by platform, then newest version first, and the devices
// of each group by name then ID. It sorts in place.
func Sort(groups []domain.RuntimeGroup) {
	slices.SortStableFunc(groups, func(a, b domain.RuntimeGroup) int {
		return cmp.Or(
			cmp.Compare(domain.NormalizePlatform(a.Version.Platform), domain.NormalizePlatform(b.Version.Platform)),
			cmp.Compare(b.Version.Major, a.Version.Major),
			cmp.Compare(b.Version.Minor, a.Version.Minor),
			cmp.Compare(a.Identifier, b.Identifier),
		)
	})
	for _, g := range groups {
		SortDevices(g.Devices)
	}
}

// SortDevices orders devices by name then ID, in place.
func SortDevices(devices []domain.Device) {
	slices.SortStableFunc(devices, func(a, b domain.Device) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
}
