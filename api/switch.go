package api

import "context"

// SwitchPortStatus is the link state of an ethernet port
type SwitchPortStatus struct {
	ID      int         `json:"id"`
	Link    string      `json:"link"` // up or down
	Mode    string      `json:"mode"` // e.g. 1000BaseT-FD
	Speed   string      `json:"speed"`
	Duplex  string      `json:"duplex"`
	MACList []SwitchMAC `json:"mac_list"`
}

// SwitchMAC is a MAC address learnt on a port
type SwitchMAC struct {
	MAC      string `json:"mac"`
	Hostname string `json:"hostname"`
}

// SwitchPortConfig is the configured mode of a port
type SwitchPortConfig struct {
	ID     int    `json:"id,omitempty"`
	Duplex string `json:"duplex,omitempty"` // auto, half, full
	Speed  string `json:"speed,omitempty"`  // auto, 10, 100, 1000
}

// SwitchPortStats holds the traffic counters of a port
type SwitchPortStats struct {
	RxGoodBytes   int64 `json:"rx_good_bytes"`
	RxGoodPackets int64 `json:"rx_good_packets"`
	RxBadBytes    int64 `json:"rx_bad_bytes"`
	RxErrPackets  int64 `json:"rx_err_packets"`
	TxBytes       int64 `json:"tx_bytes"`
	TxPackets     int64 `json:"tx_packets"`
	TxCollisions  int64 `json:"tx_collisions"`
	RxBytesRate   int64 `json:"rx_bytes_rate"`
	TxBytesRate   int64 `json:"tx_bytes_rate"`
}

// Switch exposes switch/ endpoints
type Switch struct {
	c Caller
}

// NewSwitch creates the ethernet switch module
func NewSwitch(c Caller) *Switch {
	return &Switch{c: c}
}

// Status returns the state of every port
func (m *Switch) Status(ctx context.Context) ([]SwitchPortStatus, error) {
	return decode[[]SwitchPortStatus](m.c.Get(ctx, "switch/status/"))
}

// PortConfig returns the configuration of one port
func (m *Switch) PortConfig(ctx context.Context, port int) (SwitchPortConfig, error) {
	return decode[SwitchPortConfig](m.c.Get(ctx, "switch/port/"+itoa(port)))
}

// SetPortConfig changes the configuration of one port
func (m *Switch) SetPortConfig(ctx context.Context, port int, cfg SwitchPortConfig) (SwitchPortConfig, error) {
	cfg.ID = 0
	return decode[SwitchPortConfig](m.c.Put(ctx, "switch/port/"+itoa(port), cfg))
}

// PortStats returns the counters of one port
func (m *Switch) PortStats(ctx context.Context, port int) (SwitchPortStats, error) {
	return decode[SwitchPortStats](m.c.Get(ctx, "switch/port/"+itoa(port)+"/stats"))
}
