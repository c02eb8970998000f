package inventory

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of an inventory payload.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromPath picks the format from a file extension; anything that is not
// .yaml or .yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decoder converts inventory payloads into domain catalogs.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder creates a Decoder. A nil logger discards skip notices.
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Decoder{logger: logger}
}

// Records parses a payload into a generic record.
func (d *Decoder) Records(data []byte, format Format) (map[string]any, error) {
	var record map[string]any
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &record)
	} else {
		err = json.Unmarshal(data, &record)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory payload: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("inventory payload is empty")
	}
	return record, nil
}

// Devices decodes a `simctl list devices -j` payload.
func (d *Decoder) Devices(data []byte, format Format) (domain.DeviceCatalog, error) {
	record, err := d.Records(data, format)
	if err != nil {
		return domain.DeviceCatalog{}, err
	}
	return d.DevicesFromRecord(record)
}

// Pairs decodes a `simctl list pairs -j` payload.
func (d *Decoder) Pairs(data []byte, format Format) (domain.PairCatalog, error) {
	record, err := d.Records(data, format)
	if err != nil {
		return domain.PairCatalog{}, err
	}
	return d.PairsFromRecord(record)
}

// DevicesFromRecord maps a generic record holding a "devices" key.
// Runtimes whose identifier cannot be parsed are skipped.
func (d *Decoder) DevicesFromRecord(record map[string]any) (domain.DeviceCatalog, error) {
	if err := checkPayload(record, CatalogDevices); err != nil {
		return domain.DeviceCatalog{}, err
	}

	var dto DeviceListDTO
	if err := decodeRecord(record, &dto); err != nil {
		return domain.DeviceCatalog{}, fmt.Errorf("failed to decode device list: %w", err)
	}

	ids := make([]string, 0, len(dto.Devices))
	for id := range dto.Devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	catalog := domain.DeviceCatalog{Groups: make([]domain.RuntimeGroup, 0, len(ids))}
	for _, id := range ids {
		version, ok := domain.ParseRuntimeVersion(id)
		if !ok {
			d.logger.Debug("Skipping runtime with unparseable identifier", "runtime", id)
			continue
		}

		devices := make([]domain.Device, 0, len(dto.Devices[id]))
		for i, rec := range dto.Devices[id] {
			device, err := toDevice(rec)
			if err != nil {
				return domain.DeviceCatalog{}, fmt.Errorf("runtime %s, device %d: %w", id, i, err)
			}
			devices = append(devices, device)
		}

		catalog.Groups = append(catalog.Groups, domain.RuntimeGroup{
			Identifier: id,
			Version:    version,
			Devices:    devices,
		})
	}
	return catalog, nil
}

// PairsFromRecord maps a generic record holding a "pairs" key.
func (d *Decoder) PairsFromRecord(record map[string]any) (domain.PairCatalog, error) {
	if err := checkPayload(record, CatalogPairs); err != nil {
		return domain.PairCatalog{}, err
	}

	var dto PairListDTO
	if err := decodeRecord(record, &dto); err != nil {
		return domain.PairCatalog{}, fmt.Errorf("failed to decode pair list: %w", err)
	}

	ids := make([]string, 0, len(dto.Pairs))
	for id := range dto.Pairs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	catalog := domain.PairCatalog{Pairs: make([]domain.DevicePair, 0, len(ids))}
	for _, id := range ids {
		rec := dto.Pairs[id]
		phone, err := toDevice(rec.Phone)
		if err != nil {
			return domain.PairCatalog{}, fmt.Errorf("pair %s, phone: %w", id, err)
		}
		watch, err := toDevice(rec.Watch)
		if err != nil {
			return domain.PairCatalog{}, fmt.Errorf("pair %s, watch: %w", id, err)
		}
		catalog.Pairs = append(catalog.Pairs, domain.DevicePair{
			ID:    id,
			Phone: phone,
			Watch: watch,
			State: rec.State,
		})
	}
	return catalog, nil
}

// checkPayload rejects simctl error payloads and records without the expected key.
func checkPayload(record map[string]any, key string) error {
	if _, ok := record[key]; ok {
		return nil
	}
	if _, ok := record["message"]; ok {
		var e errorDTO
		if err := mapstructure.Decode(record, &e); err == nil {
			return fmt.Errorf("simctl reported an error (status %d): %s", int(e.Status), e.Message)
		}
	}
	return fmt.Errorf("inventory payload has no %q key", key)
}

func decodeRecord(record map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(record)
}

func toDevice(rec DeviceDTO) (domain.Device, error) {
	if _, err := uuid.Parse(rec.UDID); err != nil {
		return domain.Device{}, fmt.Errorf("invalid udid %q: %w", rec.UDID, err)
	}
	if strings.TrimSpace(rec.Name) == "" {
		return domain.Device{}, fmt.Errorf("device %s has no name", rec.UDID)
	}
	return domain.Device{
		ID:                   rec.UDID,
		Name:                 rec.Name,
		State:                rec.State,
		Available:            rec.IsAvailable != nil && *rec.IsAvailable,
		AvailabilityError:    rec.AvailabilityError,
		DeviceTypeIdentifier: rec.DeviceTypeIdentifier,
		DataPath:             rec.DataPath,
		LogPath:              rec.LogPath,
	}, nil
}
