package api

import (
	"context"
	"net/url"
)

// DefaultInterface is the LAN browser interface of the main network
const DefaultInterface = "pub"

// Host types accepted by UpdateHost
const (
	HostWorkstation      = "workstation"
	HostLaptop           = "laptop"
	HostSmartphone       = "smartphone"
	HostTablet           = "tablet"
	HostPrinter          = "printer"
	HostConsole          = "vg_console"
	HostTelevision       = "television"
	HostNAS              = "nas"
	HostIPCamera         = "ip_camera"
	HostIPPhone          = "ip_phone"
	HostFreeboxPlayer    = "freebox_player"
	HostFreeboxHD        = "freebox_hd"
	HostFreeboxDelta     = "freebox_delta"
	HostNetworkingDevice = "networking_device"
	HostMultimedia       = "multimedia_device"
	HostFreeboxMini      = "freebox_mini"
	HostOther            = "other"
)

// LANConfig is the LAN addressing and naming configuration
type LANConfig struct {
	IP          string `json:"ip,omitempty"`
	Name        string `json:"name,omitempty"`
	NameDNS     string `json:"name_dns,omitempty"`
	NameMDNS    string `json:"name_mdns,omitempty"`
	NameNetBIOS string `json:"name_netbios,omitempty"`
	Mode        string `json:"mode,omitempty"` // router or bridge
}

// LANInterface is a network the LAN browser knows about
type LANInterface struct {
	Name      string `json:"name"`
	HostCount int    `json:"host_count"`
}

// LANHost is a device seen on the local network
type LANHost struct {
	ID                string           `json:"id"`
	PrimaryName       string           `json:"primary_name"`
	HostType          string           `json:"host_type"`
	PrimaryNameManual bool             `json:"primary_name_manual"`
	L2Ident           L2Ident          `json:"l2ident"`
	VendorName        string           `json:"vendor_name"`
	Persistent        bool             `json:"persistent"`
	Reachable         bool             `json:"reachable"`
	Active            bool             `json:"active"`
	LastActivity      int64            `json:"last_activity"`
	FirstActivity     int64            `json:"first_activity"`
	LastTimeReachable int64            `json:"last_time_reachable"`
	L3Connectivities  []L3Connectivity `json:"l3connectivities"`
	Names             []HostName       `json:"names"`
}

// L2Ident identifies a host at layer 2
type L2Ident struct {
	ID   string `json:"id"`
	Type string `json:"type"` // mac_address, dhcp, netbios, ...
}

// L3Connectivity is an address a host was seen with
type L3Connectivity struct {
	Addr              string `json:"addr"`
	AF                string `json:"af"` // ipv4 or ipv6
	Active            bool   `json:"active"`
	Reachable         bool   `json:"reachable"`
	LastActivity      int64  `json:"last_activity"`
	LastTimeReachable int64  `json:"last_time_reachable"`
}

// HostName is a name a host advertised, with its source
type HostName struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// HostUpdate carries the editable fields of a LAN host
type HostUpdate struct {
	PrimaryName string `json:"primary_name,omitempty"`
	HostType    string `json:"host_type,omitempty"`
	Persistent  *bool  `json:"persistent,omitempty"`
}

// LAN exposes lan/ endpoints
type LAN struct {
	c Caller
}

// NewLAN creates the LAN module
func NewLAN(c Caller) *LAN {
	return &LAN{c: c}
}

// Config returns the LAN configuration
func (m *LAN) Config(ctx context.Context) (LANConfig, error) {
	return decode[LANConfig](m.c.Get(ctx, "lan/config/"))
}

// SetConfig updates the LAN configuration. Empty fields are left unchanged.
func (m *LAN) SetConfig(ctx context.Context, cfg LANConfig) (LANConfig, error) {
	return decode[LANConfig](m.c.Put(ctx, "lan/config/", cfg))
}

// Interfaces lists the browsable interfaces
func (m *LAN) Interfaces(ctx context.Context) ([]LANInterface, error) {
	return decode[[]LANInterface](m.c.Get(ctx, "lan/browser/interfaces/"))
}

// Hosts lists the hosts seen on an interface
func (m *LAN) Hosts(ctx context.Context, iface string) ([]LANHost, error) {
	return decode[[]LANHost](m.c.Get(ctx, hostsPath(iface)))
}

// Host returns one host
func (m *LAN) Host(ctx context.Context, iface, id string) (LANHost, error) {
	return decode[LANHost](m.c.Get(ctx, hostPath(iface, id)))
}

// UpdateHost renames or retypes a host
func (m *LAN) UpdateHost(ctx context.Context, iface, id string, update HostUpdate) (LANHost, error) {
	return decode[LANHost](m.c.Put(ctx, hostPath(iface, id), update))
}

// DeleteHost forgets a host
func (m *LAN) DeleteHost(ctx context.Context, iface, id string) error {
	return done(m.c.Delete(ctx, hostPath(iface, id), nil))
}

// WakeOnLAN sends a magic packet to mac on the given interface.
// password is the optional SecureOn password.
func (m *LAN) WakeOnLAN(ctx context.Context, iface, mac, password string) error {
	body := struct {
		MAC      string `json:"mac"`
		Password string `json:"password"`
	}{MAC: mac, Password: password}
	return done(m.c.Post(ctx, "lan/wol/"+ifaceOrDefault(iface)+"/", body))
}

func ifaceOrDefault(iface string) string {
	if iface == "" {
		return DefaultInterface
	}
	return url.PathEscape(iface)
}

func hostsPath(iface string) string {
	return "lan/browser/" + ifaceOrDefault(iface) + "/"
}

func hostPath(iface, id string) string {
	return hostsPath(iface) + url.PathEscape(id)
}
