package api

import (
	"context"
	"net/url"
)

// WiFiConfig is the global wifi state
type WiFiConfig struct {
	Enabled        bool   `json:"enabled"`
	MACFilterState string `json:"mac_filter_state"` // disabled, whitelist, blacklist
	PowerSaving    bool   `json:"power_saving"`
}

// WiFiConfigUpdate changes the global wifi state. Nil fields are left unchanged.
type WiFiConfigUpdate struct {
	Enabled        *bool  `json:"enabled,omitempty"`
	MACFilterState string `json:"mac_filter_state,omitempty"`
	PowerSaving    *bool  `json:"power_saving,omitempty"`
}

// AccessPoint is a radio of the Freebox
type AccessPoint struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Status APStatus `json:"status"`
	Config APConfig `json:"config"`
}

// APStatus is the live state of a radio
type APStatus struct {
	State               string `json:"state"`
	ChannelWidth        int    `json:"channel_width"`
	PrimaryChannel      int    `json:"primary_channel"`
	SecondaryChannel    int    `json:"secondary_channel"`
	DFSCACRemainingTime int    `json:"dfs_cac_remaining_time"`
	DFSDisabled         bool   `json:"dfs_disabled"`
}

// APConfig is the configured state of a radio
type APConfig struct {
	Band             string `json:"band"`
	ChannelWidth     string `json:"channel_width"`
	PrimaryChannel   int    `json:"primary_channel"`
	SecondaryChannel int    `json:"secondary_channel"`
	DFSEnabled       bool   `json:"dfs_enabled"`
}

// Station is a client associated to a radio
type Station struct {
	ID           string   `json:"id"`
	MAC          string   `json:"mac"`
	BSSID        string   `json:"bssid"`
	Hostname     string   `json:"hostname"`
	Host         *LANHost `json:"host,omitempty"`
	State        string   `json:"state"`
	Inactive     int      `json:"inactive"`
	ConnDuration int      `json:"conn_duration"`
	RxBytes      int64    `json:"rx_bytes"`
	TxBytes      int64    `json:"tx_bytes"`
	RxRate       int64    `json:"rx_rate"`
	TxRate       int64    `json:"tx_rate"`
	Signal       int      `json:"signal"`
	Flags        StaFlags `json:"flags"`
}

// StaFlags describes a station's capabilities
type StaFlags struct {
	Legacy     bool `json:"legacy"`
	HT         bool `json:"ht"`
	VHT        bool `json:"vht"`
	Authorized bool `json:"authorized"`
}

// BSS is a wireless network broadcast by a radio
type BSS struct {
	ID     string    `json:"id"`
	PhyID  int       `json:"phy_id"`
	Status BSSStatus `json:"status"`
	Config BSSConfig `json:"config"`
}

// BSSStatus is the live state of a BSS
type BSSStatus struct {
	State              string `json:"state"`
	StaCount           int    `json:"sta_count"`
	AuthorizedStaCount int    `json:"authorized_sta_count"`
	IsMainBSS          bool   `json:"is_main_bss"`
}

// BSSConfig is the configured state of a BSS
type BSSConfig struct {
	Enabled      bool   `json:"enabled"`
	SSID         string `json:"ssid"`
	HideSSID     bool   `json:"hide_ssid"`
	Encryption   string `json:"encryption"`
	Key          string `json:"key"`
	EAPOLVersion int    `json:"eapol_version"`
}

// MACFilter is an entry of the wifi MAC whitelist or blacklist
type MACFilter struct {
	ID       string `json:"id,omitempty"`
	MAC      string `json:"mac"`
	Comment  string `json:"comment"`
	Type     string `json:"type"` // whitelist or blacklist
	Hostname string `json:"hostname,omitempty"`
}

// WiFi exposes wifi/ endpoints
type WiFi struct {
	c Caller
}

// NewWiFi creates the wifi module
func NewWiFi(c Caller) *WiFi {
	return &WiFi{c: c}
}

// GlobalConfig returns the global wifi state
func (m *WiFi) GlobalConfig(ctx context.Context) (WiFiConfig, error) {
	return decode[WiFiConfig](m.c.Get(ctx, "wifi/config/"))
}

// SetGlobalConfig updates the global wifi state
func (m *WiFi) SetGlobalConfig(ctx context.Context, update WiFiConfigUpdate) (WiFiConfig, error) {
	return decode[WiFiConfig](m.c.Put(ctx, "wifi/config/", update))
}

// APs lists the radios
func (m *WiFi) APs(ctx context.Context) ([]AccessPoint, error) {
	return decode[[]AccessPoint](m.c.Get(ctx, "wifi/ap/"))
}

// AP returns one radio
func (m *WiFi) AP(ctx context.Context, id int) (AccessPoint, error) {
	return decode[AccessPoint](m.c.Get(ctx, "wifi/ap/"+itoa(id)))
}

// Stations lists the clients of a radio
func (m *WiFi) Stations(ctx context.Context, apID int) ([]Station, error) {
	return decode[[]Station](m.c.Get(ctx, "wifi/ap/"+itoa(apID)+"/stations/"))
}

// BSS lists the wireless networks
func (m *WiFi) BSS(ctx context.Context) ([]BSS, error) {
	return decode[[]BSS](m.c.Get(ctx, "wifi/bss/"))
}

// MACFilters lists the MAC filter entries
func (m *WiFi) MACFilters(ctx context.Context) ([]MACFilter, error) {
	return decode[[]MACFilter](m.c.Get(ctx, "wifi/mac_filter/"))
}

// CreateMACFilter adds a MAC filter entry
func (m *WiFi) CreateMACFilter(ctx context.Context, filter MACFilter) (MACFilter, error) {
	filter.ID = ""
	filter.Hostname = ""
	return decode[MACFilter](m.c.Post(ctx, "wifi/mac_filter/", filter))
}

// DeleteMACFilter removes a MAC filter entry
func (m *WiFi) DeleteMACFilter(ctx context.Context, id string) error {
	return done(m.c.Delete(ctx, "wifi/mac_filter/"+url.PathEscape(id), nil))
}

// Switch turns wifi on or off and reports the resulting state.
// A nil enabled only reads the current state.
func (m *WiFi) Switch(ctx context.Context, enabled *bool) (bool, error) {
	var (
		cfg WiFiConfig
		err error
	)
	if enabled != nil {
		cfg, err = m.SetGlobalConfig(ctx, WiFiConfigUpdate{Enabled: enabled})
	} else {
		cfg, err = m.GlobalConfig(ctx)
	}
	if err != nil {
		return false, err
	}
	return cfg.Enabled, nil
}
