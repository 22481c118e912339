package config

import "time"

// Registry represents the entire user configuration file.
// It stores the application tokens obtained by pairing, one per Freebox.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by Freebox host
	Preferences *Preferences       `yaml:"preferences,omitempty"`

	// path is where the registry was loaded from and is saved to
	path string
}

// Device holds the pairing state for one Freebox.
type Device struct {
	AppID      string    `yaml:"app_id"`                // Application identifier used when pairing
	AppName    string    `yaml:"app_name,omitempty"`    // Application name shown on the Freebox
	AppVersion string    `yaml:"app_version,omitempty"` // Application version sent when pairing
	DeviceName string    `yaml:"device_name,omitempty"` // Name of this machine as shown on the Freebox
	AppToken   string    `yaml:"app_token"`             // Secret granted by pairing
	TrackID    int       `yaml:"track_id,omitempty"`    // Pairing request identifier
	UID        string    `yaml:"uid,omitempty"`         // Box unique id from api_version
	BoxModel   string    `yaml:"box_model,omitempty"`   // Box model from api_version
	PairedAt   time.Time `yaml:"paired_at,omitempty"`   // When the token was granted
	LastSeen   time.Time `yaml:"last_seen,omitempty"`   // Last successful session
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultHost string `yaml:"default_host,omitempty"` // Host used when --host is not given
	APIVersion  string `yaml:"api_version,omitempty"`  // API version segment ("latest", "v8", "server")
	Timeout     int    `yaml:"timeout,omitempty"`      // Request timeout in seconds
}

// Pairing carries the outcome of a successful registration.
type Pairing struct {
	AppID      string
	AppName    string
	AppVersion string
	DeviceName string
	AppToken   string
	TrackID    int
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: &Preferences{},
	}
}

// GetDevice retrieves the pairing state for a host.
// Returns nil if the host was never paired.
func (r *Registry) GetDevice(host string) *Device {
	return r.Devices[host]
}

// EnsureDevice returns the entry for host, creating an empty one if needed.
func (r *Registry) EnsureDevice(host string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[host]; exists {
		return device
	}

	device := &Device{}
	r.Devices[host] = device
	return device
}

// StorePairing records a granted application token for host, replacing any
// earlier pairing.
func (r *Registry) StorePairing(host string, p Pairing) *Device {
	device := r.EnsureDevice(host)
	device.AppID = p.AppID
	device.AppName = p.AppName
	device.AppVersion = p.AppVersion
	device.DeviceName = p.DeviceName
	device.AppToken = p.AppToken
	device.TrackID = p.TrackID
	device.PairedAt = time.Now()
	return device
}

// UpdateDeviceInfo stores what the box reported about itself and marks it seen.
func (r *Registry) UpdateDeviceInfo(host, uid, boxModel string) {
	device := r.EnsureDevice(host)
	if uid != "" {
		device.UID = uid
	}
	if boxModel != "" {
		device.BoxModel = boxModel
	}
	device.LastSeen = time.Now()
}

// Forget removes the pairing for host. It reports whether one existed.
func (r *Registry) Forget(host string) bool {
	if _, ok := r.Devices[host]; !ok {
		return false
	}
	delete(r.Devices, host)
	return true
}

// Path returns the file this registry is bound to
func (r *Registry) Path() string {
	return r.path
}
