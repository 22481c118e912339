package api

import "context"

// PortForward is a port redirection from the WAN to a LAN host
type PortForward struct {
	ID           int      `json:"id,omitempty"`
	Enabled      bool     `json:"enabled"`
	Comment      string   `json:"comment"`
	LanPort      int      `json:"lan_port"`
	WanPortStart int      `json:"wan_port_start"`
	WanPortEnd   int      `json:"wan_port_end"`
	LanIP        string   `json:"lan_ip"`
	IPProto      string   `json:"ip_proto"` // tcp or udp
	SrcIP        string   `json:"src_ip"`
	Hostname     string   `json:"hostname,omitempty"`
	Host         *LANHost `json:"host,omitempty"`
}

// DMZConfig sends all unsolicited WAN traffic to one LAN address
type DMZConfig struct {
	Enabled bool   `json:"enabled"`
	IP      string `json:"ip"`
}

// Firewall exposes fw/ endpoints. Requires the settings permission.
type Firewall struct {
	c Caller
}

// NewFirewall creates the firewall module
func NewFirewall(c Caller) *Firewall {
	return &Firewall{c: c}
}

// PortForwards lists the port redirections
func (m *Firewall) PortForwards(ctx context.Context) ([]PortForward, error) {
	return decode[[]PortForward](m.c.Get(ctx, "fw/redir/"))
}

// CreatePortForward adds a port redirection
func (m *Firewall) CreatePortForward(ctx context.Context, fwd PortForward) (PortForward, error) {
	fwd.ID = 0
	fwd.Hostname = ""
	fwd.Host = nil
	return decode[PortForward](m.c.Post(ctx, "fw/redir/", fwd))
}

// DeletePortForward removes a port redirection
func (m *Firewall) DeletePortForward(ctx context.Context, id int) error {
	return done(m.c.Delete(ctx, "fw/redir/"+itoa(id), nil))
}

// DMZ returns the DMZ configuration
func (m *Firewall) DMZ(ctx context.Context) (DMZConfig, error) {
	return decode[DMZConfig](m.c.Get(ctx, "fw/dmz/"))
}

// SetDMZ replaces the DMZ configuration
func (m *Firewall) SetDMZ(ctx context.Context, cfg DMZConfig) (DMZConfig, error) {
	return decode[DMZConfig](m.c.Put(ctx, "fw/dmz/", cfg))
}
