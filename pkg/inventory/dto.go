package inventory

// DeviceDTO mirrors one device record of `simctl list devices -j`.
// Pair records only carry name, udid and state.
type DeviceDTO struct {
	UDID                 string `json:"udid" yaml:"udid" mapstructure:"udid"`
	Name                 string `json:"name" yaml:"name" mapstructure:"name"`
	State                string `json:"state" yaml:"state" mapstructure:"state"`
	IsAvailable          *bool  `json:"isAvailable,omitempty" yaml:"isAvailable,omitempty" mapstructure:"isAvailable"`
	AvailabilityError    string `json:"availabilityError,omitempty" yaml:"availabilityError,omitempty" mapstructure:"availabilityError"`
	DeviceTypeIdentifier string `json:"deviceTypeIdentifier,omitempty" yaml:"deviceTypeIdentifier,omitempty" mapstructure:"deviceTypeIdentifier"`
	DataPath             string `json:"dataPath,omitempty" yaml:"dataPath,omitempty" mapstructure:"dataPath"`
	LogPath              string `json:"logPath,omitempty" yaml:"logPath,omitempty" mapstructure:"logPath"`
}

// DeviceListDTO is the top level of `simctl list devices -j`.
type DeviceListDTO struct {
	Devices map[string][]DeviceDTO `json:"devices" yaml:"devices" mapstructure:"devices"`
}

// PairDTO mirrors one pair record of `simctl list pairs -j`.
type PairDTO struct {
	Watch DeviceDTO `json:"watch" yaml:"watch" mapstructure:"watch"`
	Phone DeviceDTO `json:"phone" yaml:"phone" mapstructure:"phone"`
	State string    `json:"state" yaml:"state" mapstructure:"state"`
}

// PairListDTO is the top level of `simctl list pairs -j`.
type PairListDTO struct {
	Pairs map[string]PairDTO `json:"pairs" yaml:"pairs" mapstructure:"pairs"`
}

// errorDTO is what simctl prints on stdout for some failures.
type errorDTO struct {
	Message string  `mapstructure:"message"`
	Status  float64 `mapstructure:"status"`
}
