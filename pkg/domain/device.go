package domain

import "strings"

// Device is a simulator instance reported by the inventory.
// Devices are snapshots; nothing in findsimulator mutates them.
type Device struct {
	ID    string `json:"udid" yaml:"udid"`
	Name  string `json:"name" yaml:"name"`
	State string `json:"state" yaml:"state"`

	Available            bool   `json:"isAvailable" yaml:"isAvailable"`
	AvailabilityError    string `json:"availabilityError,omitempty" yaml:"availabilityError,omitempty"`
	DeviceTypeIdentifier string `json:"deviceTypeIdentifier,omitempty" yaml:"deviceTypeIdentifier,omitempty"`
	DataPath             string `json:"dataPath,omitempty" yaml:"dataPath,omitempty"`
	LogPath              string `json:"logPath,omitempty" yaml:"logPath,omitempty"`
}

// RuntimeGroup holds the devices installed for one runtime, in inventory order.
type RuntimeGroup struct {
	Identifier string         `json:"identifier" yaml:"identifier"`
	Version    RuntimeVersion `json:"version" yaml:"version"`
	Devices    []Device       `json:"devices" yaml:"devices"`
}

// Enabled reports whether at least one device of the group is available.
func (g RuntimeGroup) Enabled() bool {
	for _, d := range g.Devices {
		if d.Available {
			return true
		}
	}
	return false
}

// WithDevices returns a copy of the group holding the given devices.
func (g RuntimeGroup) WithDevices(devices []Device) RuntimeGroup {
	g.Devices = devices
	return g
}

// EnabledGroups returns the groups that contain an available device.
func EnabledGroups(groups []RuntimeGroup) []RuntimeGroup {
	enabled := make([]RuntimeGroup, 0, len(groups))
	for _, g := range groups {
		if g.Enabled() {
			enabled = append(enabled, g)
		}
	}
	return enabled
}

// DevicePair associates a phone with a companion watch.
type DevicePair struct {
	ID    string `json:"id" yaml:"id"`
	Phone Device `json:"phone" yaml:"phone"`
	Watch Device `json:"watch" yaml:"watch"`
	State string `json:"state" yaml:"state"`
}

// Available reports whether the pair state does not mention "unavailable".
func (p DevicePair) Available() bool {
	return !strings.Contains(p.State, "unavailable")
}

// DeviceCatalog is the decoded device inventory, one group per parseable runtime.
type DeviceCatalog struct {
	Groups []RuntimeGroup `json:"groups" yaml:"groups"`
}

// PairCatalog is the decoded pair inventory.
type PairCatalog struct {
	Pairs []DevicePair `json:"pairs" yaml:"pairs"`
}
