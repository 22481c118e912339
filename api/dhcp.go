package api

import "context"

// DHCPConfig is the DHCPv4 server configuration
type DHCPConfig struct {
	Enabled         bool     `json:"enabled"`
	StickyAssign    bool     `json:"sticky_assign"`
	AlwaysBroadcast bool     `json:"always_broadcast"`
	IPRangeStart    string   `json:"ip_range_start"`
	IPRangeEnd      string   `json:"ip_range_end"`
	Netmask         string   `json:"netmask"`
	Gateway         string   `json:"gateway"`
	DNS             []string `json:"dns"`
}

// DHCPv6Config is the DHCPv6 server configuration
type DHCPv6Config struct {
	Enabled      bool     `json:"enabled"`
	UseCustomDNS bool     `json:"use_custom_dns"`
	DNS          []string `json:"dns"`
}

// DHCPLease is a dynamic or static address assignment
type DHCPLease struct {
	ID             string   `json:"id"`
	MAC            string   `json:"mac"`
	IP             string   `json:"ip"`
	Hostname       string   `json:"hostname"`
	Comment        string   `json:"comment,omitempty"`
	IsStatic       bool     `json:"is_static"`
	LeaseRemaining int64    `json:"lease_remaining"`
	AssignTime     int64    `json:"assign_time"`
	RefreshTime    int64    `json:"refresh_time"`
	Host           *LANHost `json:"host,omitempty"`
}

// DHCP exposes dhcp/ and dhcpv6/ endpoints
type DHCP struct {
	c Caller
}

// NewDHCP creates the DHCP module
func NewDHCP(c Caller) *DHCP {
	return &DHCP{c: c}
}

// Config returns the DHCPv4 configuration
func (m *DHCP) Config(ctx context.Context) (DHCPConfig, error) {
	return decode[DHCPConfig](m.c.Get(ctx, "dhcp/config/"))
}

// SetConfig replaces the DHCPv4 configuration
func (m *DHCP) SetConfig(ctx context.Context, cfg DHCPConfig) (DHCPConfig, error) {
	return decode[DHCPConfig](m.c.Put(ctx, "dhcp/config/", cfg))
}

// V6Config returns the DHCPv6 configuration
func (m *DHCP) V6Config(ctx context.Context) (DHCPv6Config, error) {
	return decode[DHCPv6Config](m.c.Get(ctx, "dhcpv6/config/"))
}

// SetV6Config replaces the DHCPv6 configuration
func (m *DHCP) SetV6Config(ctx context.Context, cfg DHCPv6Config) (DHCPv6Config, error) {
	return decode[DHCPv6Config](m.c.Put(ctx, "dhcpv6/config/", cfg))
}

// DynamicLeases lists the addresses handed out dynamically
func (m *DHCP) DynamicLeases(ctx context.Context) ([]DHCPLease, error) {
	return decode[[]DHCPLease](m.c.Get(ctx, "dhcp/dynamic_lease/"))
}

// StaticLeases lists the reserved addresses
func (m *DHCP) StaticLeases(ctx context.Context) ([]DHCPLease, error) {
	return decode[[]DHCPLease](m.c.Get(ctx, "dhcp/static_lease/"))
}
