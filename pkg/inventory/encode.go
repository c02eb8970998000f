package inventory

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/findsimulator/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Snapshot is a combined devices and pairs document in simctl's wire shape.
type Snapshot struct {
	Devices map[string][]DeviceDTO `json:"devices" yaml:"devices"`
	Pairs   map[string]PairDTO     `json:"pairs" yaml:"pairs"`
}

// NewSnapshot converts domain catalogs back to the wire shape.
func NewSnapshot(devices domain.DeviceCatalog, pairs domain.PairCatalog) Snapshot {
	snap := Snapshot{
		Devices: make(map[string][]DeviceDTO, len(devices.Groups)),
		Pairs:   make(map[string]PairDTO, len(pairs.Pairs)),
	}
	for _, g := range devices.Groups {
		records := make([]DeviceDTO, 0, len(g.Devices))
		for _, d := range g.Devices {
			records = append(records, fromDevice(d, true))
		}
		snap.Devices[g.Identifier] = records
	}
	for _, p := range pairs.Pairs {
		snap.Pairs[p.ID] = PairDTO{
			Watch: fromDevice(p.Watch, false),
			Phone: fromDevice(p.Phone, false),
			State: p.State,
		}
	}
	return snap
}

// Encode renders the snapshot in the given format.
func (s Snapshot) Encode(format Format) ([]byte, error) {
	var data []byte
	var err error
	if format == FormatYAML {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

func fromDevice(d domain.Device, withAvailability bool) DeviceDTO {
	rec := DeviceDTO{
		UDID:                 d.ID,
		Name:                 d.Name,
		State:                d.State,
		AvailabilityError:    d.AvailabilityError,
		DeviceTypeIdentifier: d.DeviceTypeIdentifier,
		DataPath:             d.DataPath,
		LogPath:              d.LogPath,
	}
	if withAvailability {
		available := d.Available
		rec.IsAvailable = &available
	}
	return rec
}
