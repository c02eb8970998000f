// Command gen-fixture writes a synthetic simulator inventory, usable with
// `findsimulator --inventory` on machines without Xcode.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/findsimulator/pkg/adapters/file"
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/google/uuid"
)

const runtimePrefix = "com.apple.CoreSimulator.SimRuntime."

// udidNamespace keeps generated UDIDs stable between runs.
var udidNamespace = uuid.MustParse("6f1c0c52-54d4-4b0e-9a57-5d1e3c4b2a10")

type runtimeSpec struct {
	id        string
	devices   []string
	available bool
}

var runtimes = []runtimeSpec{
	{"iOS-17-5", []string{"iPhone 15", "iPhone 15 Plus", "iPhone 15 Pro", "iPhone 15 Pro Max", "iPad Air (5th generation)"}, true},
	{"iOS-17-4", []string{"iPhone 15", "iPhone 14", "iPhone SE (3rd generation)"}, true},
	{"iOS-16-4", []string{"iPhone 14", "iPhone 14 Pro"}, true},
	{"iOS-18-0", []string{"iPhone 16", "iPhone 16 Pro"}, false},
	{"watchOS-10-5", []string{"Apple Watch Series 9 (41mm)", "Apple Watch Series 9 (45mm)", "Apple Watch Ultra 2 (49mm)"}, true},
	{"tvOS-17-5", []string{"Apple TV", "Apple TV 4K (3rd generation)"}, true},
}

var pairs = []struct {
	phone, watch, state string
}{
	{"iPhone 15", "Apple Watch Series 9 (41mm)", "(active, connected)"},
	{"iPhone 15 Pro", "Apple Watch Series 9 (45mm)", "(inactive, disconnected)"},
	{"iPhone 15 Pro Max", "Apple Watch Ultra 2 (49mm)", "(unavailable, runtime profile not found)"},
}

func udid(parts ...string) string {
	return uuid.NewSHA1(udidNamespace, []byte(fmt.Sprint(parts))).String()
}

func main() {
	target := "testdata/inventory.json"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	fmt.Printf("Generating simulator inventory in: %s\n", target)

	var devices domain.DeviceCatalog
	for _, rt := range runtimes {
		id := runtimePrefix + rt.id
		version, ok := domain.ParseRuntimeVersion(id)
		if !ok {
			panic("bad runtime " + id)
		}
		group := domain.RuntimeGroup{Identifier: id, Version: version}
		for _, name := range rt.devices {
			d := domain.Device{
				ID:        udid(rt.id, name),
				Name:      name,
				State:     "Shutdown",
				Available: rt.available,
			}
			if !rt.available {
				d.AvailabilityError = "runtime profile not found"
			}
			group.Devices = append(group.Devices, d)
		}
		devices.Groups = append(devices.Groups, group)
	}

	var catalog domain.PairCatalog
	for _, p := range pairs {
		catalog.Pairs = append(catalog.Pairs, domain.DevicePair{
			ID:    udid("pair", p.phone, p.watch),
			Phone: domain.Device{ID: udid("iOS-17-5", p.phone), Name: p.phone, State: "Shutdown"},
			Watch: domain.Device{ID: udid("watchOS-10-5", p.watch), Name: p.watch, State: "Shutdown"},
			State: p.state,
		})
	}

	if err := file.Save(context.Background(), target, devices, catalog); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d runtimes and %d pairs\n", len(devices.Groups), len(catalog.Pairs))
}
