// Package file serves inventory snapshots saved on disk, for offline runs and CI fixtures.
package file

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/inventory"
)

// Source implements inventory.Source over a snapshot file holding a "devices"
// key, a "pairs" key or both. JSON and YAML are picked by extension.
// The file is re-read on every call.
type Source struct {
	Path    string
	decoder *inventory.Decoder
}

// New creates a Source for path. A nil logger discards decode notices.
func New(path string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Source{Path: path, decoder: inventory.NewDecoder(logger)}
}

// Devices reads the device catalog from the snapshot.
func (s *Source) Devices(ctx context.Context) (domain.DeviceCatalog, error) {
	record, err := s.read(ctx)
	if err != nil {
		return domain.DeviceCatalog{}, err
	}
	return s.decoder.DevicesFromRecord(record)
}

// Pairs reads the pair catalog from the snapshot.
func (s *Source) Pairs(ctx context.Context) (domain.PairCatalog, error) {
	record, err := s.read(ctx)
	if err != nil {
		return domain.PairCatalog{}, err
	}
	return s.decoder.PairsFromRecord(record)
}

func (s *Source) read(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	record, err := s.decoder.Records(data, inventory.FormatFromPath(s.Path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return record, nil
}

// Save writes a snapshot of both catalogs to path atomically.
// It writes to a temporary file first, syncs it, and then renames it to the destination.
func Save(ctx context.Context, path string, devices domain.DeviceCatalog, pairs domain.PairCatalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := inventory.NewSnapshot(devices, pairs).Encode(inventory.FormatFromPath(path))
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure snapshot directory: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}
	return nil
}
