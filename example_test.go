package findsimulator_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/findsimulator"
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/inventory"
)

func exampleSource() inventory.Static {
	runtime := "com.apple.CoreSimulator.SimRuntime.iOS-17-5"
	version, _ := domain.ParseRuntimeVersion(runtime)
	return inventory.Static{
		DeviceCatalog: domain.DeviceCatalog{Groups: []domain.RuntimeGroup{{
			Identifier: runtime,
			Version:    version,
			Devices: []domain.Device{
				{ID: "5E9A4D1C-8F32-4B7A-9C11-2D3E4F5A6B7C", Name: "iPhone 15 Pro", Available: true},
				{ID: "0B1C2D3E-4F5A-4B6C-8D7E-9F0A1B2C3D4E", Name: "iPhone 15", Available: true},
			},
		}}},
	}
}

func ExampleFinder_Find() {
	finder := findsimulator.New(exampleSource())

	query, err := findsimulator.NewQuery(findsimulator.QueryOptions{
		Platform: "ios",
		Major:    "latest",
		Minor:    "latest",
		Pattern:  `Pro$`,
	})
	if err != nil {
		panic(err)
	}

	result, err := finder.Find(context.Background(), query)
	if err != nil {
		panic(err)
	}
	best, _ := result.First()
	fmt.Printf("%s %s %s\n", best.Version, best.Device.Name, best.Device.ID)
	// Output: iOS 17.5 iPhone 15 Pro 5E9A4D1C-8F32-4B7A-9C11-2D3E4F5A6B7C
}

func ExampleFinder_Find_noMatch() {
	finder := findsimulator.New(exampleSource())

	query, _ := findsimulator.NewQuery(findsimulator.QueryOptions{Major: "16", Minor: "all"})
	_, err := finder.Find(context.Background(), query)

	fmt.Println(errors.Is(err, domain.KindNoMatch), domain.KindOf(err).ExitCode())
	// Output: true 1
}
