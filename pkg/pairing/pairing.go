// Package pairing finds phones that have an available companion watch.
package pairing

import (
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/filter"
)

// Filter returns the phones of available pairs whose name satisfies name,
// in the order the records are given. Use filter.None() for no name filter.
func Filter(records []domain.DevicePair, name filter.Matcher) []domain.Device {
	var phones []domain.Device
	for _, p := range records {
		if !p.Available() {
			continue
		}
		if name.Match(p.Phone.Name) {
			phones = append(phones, p.Phone)
		}
	}
	return phones
}

// Sort orders phones by name then ID, in place.
func Sort(phones []domain.Device) {
	filter.SortDevices(phones)
}
