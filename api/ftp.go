package api

import "context"

// FTPConfig is the built-in FTP server configuration
type FTPConfig struct {
	Enabled             bool   `json:"enabled"`
	AllowAnonymous      bool   `json:"allow_anonymous"`
	AllowAnonymousWrite bool   `json:"allow_anonymous_write"`
	AllowRemoteAccess   bool   `json:"allow_remote_access"`
	WeakPassword        bool   `json:"weak_password"`
	PortCtrl            int    `json:"port_ctrl"`
	PortData            int    `json:"port_data"`
	RemoteDomain        string `json:"remote_domain"`
	Password            string `json:"password,omitempty"`
}

// FTP exposes ftp/ endpoints
type FTP struct {
	c Caller
}

// NewFTP creates the FTP module
func NewFTP(c Caller) *FTP {
	return &FTP{c: c}
}

// Config returns the FTP server configuration
func (m *FTP) Config(ctx context.Context) (FTPConfig, error) {
	return decode[FTPConfig](m.c.Get(ctx, "ftp/config/"))
}

// SetConfig replaces the FTP server configuration
func (m *FTP) SetConfig(ctx context.Context, cfg FTPConfig) (FTPConfig, error) {
	return decode[FTPConfig](m.c.Put(ctx, "ftp/config/", cfg))
}
