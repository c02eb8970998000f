// Package testutils provides inventory fixtures shaped like `simctl list -j` output.
package testutils

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/findsimulator/pkg/domain"
)

const runtimePrefix = "com.apple.CoreSimulator.SimRuntime."

// Runtime identifiers used by the fixtures.
const (
	RuntimeIOS174    = runtimePrefix + "iOS-17-4"
	RuntimeIOS175    = runtimePrefix + "iOS-17-5"
	RuntimeIOS155    = runtimePrefix + "iOS-15-5"
	RuntimeIOS180    = runtimePrefix + "iOS-18-0"
	RuntimeWatchOS   = runtimePrefix + "watchOS-10-2"
	RuntimeTVOS      = runtimePrefix + "tvOS-17-0"
	RuntimeMalformed = runtimePrefix + "garbage"
)

// UDID returns a deterministic, valid UUID string for fixture n.
func UDID(n int) string {
	return fmt.Sprintf("%08X-0000-4000-8000-%012X", n, n)
}

type fixtureDevice struct {
	name      string
	available bool
}

var fixtureGroups = []struct {
	identifier string
	devices    []fixtureDevice
}{
	{RuntimeIOS174, []fixtureDevice{
		{"iPhone SE (3rd generation)", true},
		{"iPhone 15", true},
		{"iPhone 15 Plus", true},
		{"iPhone 15 Pro", true},
		{"iPhone 15 Pro Max", true},
		{"iPhone 14", true},
		{"iPhone 14 Plus", true},
		{"iPhone 14 Pro", true},
		{"iPhone 14 Pro Max", true},
		{"iPad Air (5th generation)", true},
		{"iPad (10th generation)", true},
		{"iPad mini (6th generation)", true},
		{"iPad Pro (11-inch) (4th generation)", true},
		{"iPad Pro (12.9-inch) (6th generation)", true},
	}},
	{RuntimeIOS175, []fixtureDevice{
		{"iPhone 15 Pro", true},
		{"iPhone 15", true},
		{"iPhone 16 beta", false},
	}},
	{RuntimeIOS155, []fixtureDevice{
		{"iPhone 13", true},
		{"iPhone 8", true},
	}},
	{RuntimeIOS180, []fixtureDevice{
		{"iPhone 16", false},
	}},
	{RuntimeWatchOS, []fixtureDevice{
		{"Apple Watch Series 9 (45mm)", true},
	}},
	{RuntimeTVOS, []fixtureDevice{
		{"Apple TV", false},
	}},
	{RuntimeMalformed, []fixtureDevice{
		{"Mystery Device", true},
	}},
}

// DeviceMap returns the raw device inventory keyed by runtime identifier.
// Device IDs are numbered in fixture order starting at 1.
func DeviceMap() map[string][]domain.Device {
	out := make(map[string][]domain.Device, len(fixtureGroups))
	n := 0
	for _, g := range fixtureGroups {
		devices := make([]domain.Device, 0, len(g.devices))
		for _, d := range g.devices {
			n++
			state := "Shutdown"
			if n == 2 {
				state = "Booted"
			}
			devices = append(devices, domain.Device{
				ID:        UDID(n),
				Name:      d.name,
				State:     state,
				Available: d.available,
			})
		}
		out[g.identifier] = devices
	}
	return out
}

// Groups returns the parseable runtime groups of DeviceMap, sorted by identifier.
// The malformed runtime is skipped.
func Groups() []domain.RuntimeGroup {
	raw := DeviceMap()
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]domain.RuntimeGroup, 0, len(ids))
	for _, id := range ids {
		v, ok := domain.ParseRuntimeVersion(id)
		if !ok {
			continue
		}
		groups = append(groups, domain.RuntimeGroup{Identifier: id, Version: v, Devices: raw[id]})
	}
	return groups
}

// Group returns the fixture group with the given identifier.
func Group(identifier string) domain.RuntimeGroup {
	for _, g := range Groups() {
		if g.Identifier == identifier {
			return g
		}
	}
	panic("unknown fixture runtime " + identifier)
}

// Pair states used by the fixtures.
const (
	PairActive      = "(active, connected)"
	PairInactive    = "(inactive, disconnected)"
	PairUnavailable = "(unavailable, runtime profile not found)"
)

var fixturePairs = []struct {
	phone string
	watch string
	state string
}{
	{"iPhone 15", "Apple Watch Series 9 (41mm)", PairActive},
	{"iPhone 15 Pro", "Apple Watch Series 9 (45mm)", PairInactive},
	{"iPhone 15 Pro Max", "Apple Watch Ultra 2 (49mm)", PairInactive},
	{"iPhone 14", "Apple Watch Series 8 (41mm)", PairInactive},
	{"iPhone SE (3rd generation)", "Apple Watch SE (40mm)", PairInactive},
	{"iPhone 13", "Apple Watch Series 7 (45mm)", PairUnavailable},
}

// Pairs returns the pair inventory sorted by pair ID. Five pairs are available.
func Pairs() []domain.DevicePair {
	pairs := make([]domain.DevicePair, 0, len(fixturePairs))
	for i, p := range fixturePairs {
		pairs = append(pairs, domain.DevicePair{
			ID:    UDID(1000 + i),
			Phone: domain.Device{ID: UDID(2000 + i), Name: p.phone, State: "Shutdown"},
			Watch: domain.Device{ID: UDID(3000 + i), Name: p.watch, State: "Shutdown"},
			State: p.state,
		})
	}
	return pairs
}

// DevicesJSON renders DeviceMap the way `simctl list devices -j` does.
func DevicesJSON() []byte {
	return mustMarshal(map[string]any{"devices": DeviceMap()})
}

// PairsJSON renders Pairs the way `simctl list pairs -j` does.
func PairsJSON() []byte {
	return mustMarshal(map[string]any{"pairs": pairMap()})
}

// SnapshotJSON combines devices and pairs in a single document.
func SnapshotJSON() []byte {
	return mustMarshal(map[string]any{"devices": DeviceMap(), "pairs": pairMap()})
}

type wirePairDevice struct {
	Name  string `json:"name" yaml:"name"`
	UDID  string `json:"udid" yaml:"udid"`
	State string `json:"state" yaml:"state"`
}

type wirePair struct {
	Watch wirePairDevice `json:"watch" yaml:"watch"`
	Phone wirePairDevice `json:"phone" yaml:"phone"`
	State string         `json:"state" yaml:"state"`
}

func pairMap() map[string]wirePair {
	out := make(map[string]wirePair)
	for _, p := range Pairs() {
		out[p.ID] = wirePair{
			Watch: wirePairDevice{Name: p.Watch.Name, UDID: p.Watch.ID, State: p.Watch.State},
			Phone: wirePairDevice{Name: p.Phone.Name, UDID: p.Phone.ID, State: p.Phone.State},
			State: p.State,
		}
	}
	return out
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
