package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/findsimulator/pkg/adapters/file"
)

// Snapshot saves the current devices and pairs to path, JSON or YAML by extension.
// The file can be fed back with --inventory.
func Snapshot(ctx context.Context, opts RunOptions, path string, out io.Writer) error {
	a, err := createApp(opts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	devices, err := a.finder.Devices(ctx)
	if err != nil {
		return err
	}
	pairs, err := a.finder.Pairs(ctx)
	if err != nil {
		return err
	}

	if err := file.Save(ctx, path, devices, pairs); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %d runtimes and %d pairs to %s\n", len(devices.Groups), len(pairs.Pairs), path)
	return nil
}
