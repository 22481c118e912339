package api

import "context"

// ConnectionStatus is the state of the WAN link
type ConnectionStatus struct {
	State         string `json:"state"` // going_up, up, going_down, down
	Type          string `json:"type"`  // ethernet, rfc2684, pppoatm
	Media         string `json:"media"` // ftth, ethernet, xdsl, backup_4g
	IPv4          string `json:"ipv4"`
	IPv6          string `json:"ipv6"`
	RateUp        int64  `json:"rate_up"`
	RateDown      int64  `json:"rate_down"`
	BandwidthUp   int64  `json:"bandwidth_up"`
	BandwidthDown int64  `json:"bandwidth_down"`
	BytesUp       int64  `json:"bytes_up"`
	BytesDown     int64  `json:"bytes_down"`
	IPv4PortRange []int  `json:"ipv4_port_range"`
}

// ConnectionConfig holds remote access and ping settings
type ConnectionConfig struct {
	Ping              bool   `json:"ping"`
	IsSecurePass      bool   `json:"is_secure_pass"`
	RemoteAccess      bool   `json:"remote_access"`
	RemoteAccessPort  int    `json:"remote_access_port"`
	RemoteAccessIP    string `json:"remote_access_ip"`
	APIRemoteAccess   bool   `json:"api_remote_access"`
	WOL               bool   `json:"wol"`
	AdBlock           bool   `json:"adblock"`
	AllowTokenRequest bool   `json:"allow_token_request"`
	HTTPSAvailable    bool   `json:"https_available"`
	HTTPSPort         int    `json:"https_port"`
}

// XDSLInfo reports the DSL line
type XDSLInfo struct {
	Status XDSLStatus `json:"status"`
	Down   XDSLStats  `json:"down"`
	Up     XDSLStats  `json:"up"`
}

// XDSLStatus is the DSL synchronisation state
type XDSLStatus struct {
	Status     string `json:"status"`
	Protocol   string `json:"protocol"`
	Modulation string `json:"modulation"`
	Uptime     int64  `json:"uptime"`
}

// XDSLStats holds per-direction line statistics
type XDSLStats struct {
	Rate    int64 `json:"rate"`
	MaxRate int64 `json:"maxrate"`
	SNR     int   `json:"snr"`
	Attn    int   `json:"attn"`
	CRC     int64 `json:"crc"`
	FEC     int64 `json:"fec"`
	HEC     int64 `json:"hec"`
	ES      int64 `json:"es"`
	SES     int64 `json:"ses"`
}

// FTTHInfo reports the fiber SFP module
type FTTHInfo struct {
	SFPPresent        bool   `json:"sfp_present"`
	SFPAlimOK         bool   `json:"sfp_alim_ok"`
	SFPHasPowerReport bool   `json:"sfp_has_power_report"`
	SFPHasSignal      bool   `json:"sfp_has_signal"`
	Link              bool   `json:"link"`
	SFPModel          string `json:"sfp_model"`
	SFPVendor         string `json:"sfp_vendor"`
	SFPSerial         string `json:"sfp_serial"`
	SFPPwrRx          int    `json:"sfp_pwr_rx"`
	SFPPwrTx          int    `json:"sfp_pwr_tx"`
}

// Connection exposes connection/ endpoints
type Connection struct {
	c Caller
}

// NewConnection creates the connection module
func NewConnection(c Caller) *Connection {
	return &Connection{c: c}
}

// Status returns the WAN link state
func (m *Connection) Status(ctx context.Context) (ConnectionStatus, error) {
	return decode[ConnectionStatus](m.c.Get(ctx, "connection/"))
}

// Config returns the connection configuration
func (m *Connection) Config(ctx context.Context) (ConnectionConfig, error) {
	return decode[ConnectionConfig](m.c.Get(ctx, "connection/config/"))
}

// XDSL returns DSL line information
func (m *Connection) XDSL(ctx context.Context) (XDSLInfo, error) {
	return decode[XDSLInfo](m.c.Get(ctx, "connection/xdsl/"))
}

// FTTH returns fiber module information
func (m *Connection) FTTH(ctx context.Context) (FTTHInfo, error) {
	return decode[FTTHInfo](m.c.Get(ctx, "connection/ftth/"))
}
