package api

import "context"

// SystemConfig describes the Freebox Server hardware and firmware
type SystemConfig struct {
	FirmwareVersion  string     `json:"firmware_version"`
	MAC              string     `json:"mac"`
	Serial           string     `json:"serial"`
	Uptime           string     `json:"uptime"`
	UptimeVal        int64      `json:"uptime_val"`
	BoardName        string     `json:"board_name"`
	BoxAuthenticated bool       `json:"box_authenticated"`
	DiskStatus       string     `json:"disk_status"`
	UserMainStorage  string     `json:"user_main_storage"`
	Sensors          []Sensor   `json:"sensors"`
	Fans             []Sensor   `json:"fans"`
	ModelInfo        *ModelInfo `json:"model_info,omitempty"`
}

// Sensor is a temperature probe or a fan speed reading
type Sensor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ModelInfo lists what the box model supports
type ModelInfo struct {
	Name              string `json:"name"`
	PrettyName        string `json:"pretty_name"`
	NetOperator       string `json:"net_operator"`
	WifiType          string `json:"wifi_type"`
	HasExpansions     bool   `json:"has_expansions"`
	HasLanSFP         bool   `json:"has_lan_sfp"`
	HasDECT           bool   `json:"has_dect"`
	HasHomeAutomation bool   `json:"has_home_automation"`
	HasFemtocellExp   bool   `json:"has_femtocell_exp"`
	HasFixedFemtocell bool   `json:"has_fixed_femtocell"`
	HasVM             bool   `json:"has_vm"`
	InternalHDDSize   int    `json:"internal_hdd_size"`
}

// System exposes system/ endpoints
type System struct {
	c Caller
}

// NewSystem creates the system module
func NewSystem(c Caller) *System {
	return &System{c: c}
}

// Config returns the system information
func (s *System) Config(ctx context.Context) (SystemConfig, error) {
	return decode[SystemConfig](s.c.Get(ctx, "system/"))
}

// Reboot restarts the Freebox Server. Requires the settings permission.
func (s *System) Reboot(ctx context.Context) error {
	return done(s.c.Post(ctx, "system/reboot/", nil))
}
