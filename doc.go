/*
Package findsimulator picks a simulator UDID from the locally installed Xcode
simulators, ready to be used as an xcodebuild destination.

It filters the inventory reported by `xcrun simctl` by platform, OS version and
device name. OS versions can be given as numbers or as the symbolic selectors
"all" and "latest", which resolve against the runtimes that have at least one
available device. A second lookup finds phones that are paired with an
available watch simulator.

# Architecture

The decision logic lives in small, pure packages:

  - pkg/domain: the data model and the runtime identifier parser.
  - pkg/selector: resolution of "latest"/"all"/number selectors.
  - pkg/filter: platform, version and name filtering, and result ordering.
  - pkg/pairing: phone/watch pair filtering.

Fetching and decoding the inventory happens behind inventory.Source
(pkg/adapters/simctl, pkg/adapters/file, with optional caches in
pkg/adapters/memory and pkg/adapters/redis). The Finder in this package glues
them together and is what the CLI, the HTTP API and the MCP server use.

# Usage

	finder := findsimulator.New(simctl.New())

	query, err := findsimulator.NewQuery(findsimulator.QueryOptions{
		Platform: "ios",
		Major:    "latest",
		Minor:    "latest",
		Pattern:  `^iPhone \d+ Pro$`,
	})
	if err != nil {
		log.Fatal(err)
	}

	result, err := finder.Find(ctx, query)
	if err != nil {
		log.Fatal(err) // errors.Is(err, domain.KindNoMatch) when nothing matched
	}
	best, _ := result.First()
	fmt.Println(best.Device.ID)
*/
package findsimulator
