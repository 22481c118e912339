package api

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// VM states
const (
	VMStopped  = "stopped"
	VMRunning  = "running"
	VMStarting = "starting"
	VMStopping = "stopping"
)

// VirtualMachine is a VM hosted on the Freebox
type VirtualMachine struct {
	ID                int      `json:"id,omitempty"`
	Name              string   `json:"name"`
	DiskPath          string   `json:"disk_path"` // base64 encoded
	DiskType          string   `json:"disk_type"` // qcow2 or raw
	CDPath            string   `json:"cd_path,omitempty"`
	Memory            int      `json:"memory"` // MiB
	VCPUs             int      `json:"vcpus"`
	Status            string   `json:"status,omitempty"`
	EnableScreen      bool     `json:"enable_screen"`
	BindUSBPorts      []string `json:"bind_usb_ports"`
	EnableCloudInit   bool     `json:"enable_cloudinit"`
	CloudInitHostname string   `json:"cloudinit_hostname,omitempty"`
	CloudInitUserData string   `json:"cloudinit_userdata,omitempty"`
	MAC               string   `json:"mac,omitempty"`
	OS                string   `json:"os,omitempty"`
}

// VMDistro is an installable image offered by the Freebox
type VMDistro struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Hash string `json:"hash"`
	OS   string `json:"os"`
}

// VM exposes vm/ endpoints. Requires the vm permission.
type VM struct {
	c Caller
}

// NewVM creates the virtual machine module
func NewVM(c Caller) *VM {
	return &VM{c: c}
}

// List returns every VM
func (m *VM) List(ctx context.Context) ([]VirtualMachine, error) {
	return decode[[]VirtualMachine](m.c.Get(ctx, "vm/"))
}

// Get returns one VM
func (m *VM) Get(ctx context.Context, id int) (VirtualMachine, error) {
	return decode[VirtualMachine](m.c.Get(ctx, "vm/"+itoa(id)))
}

// Create defines a new VM
func (m *VM) Create(ctx context.Context, vm VirtualMachine) (VirtualMachine, error) {
	vm.ID = 0
	vm.Status = ""
	if vm.BindUSBPorts == nil {
		vm.BindUSBPorts = []string{}
	}
	return decode[VirtualMachine](m.c.Post(ctx, "vm/", vm))
}

// Update changes the definition of a stopped VM
func (m *VM) Update(ctx context.Context, id int, vm VirtualMachine) (VirtualMachine, error) {
	vm.ID = id
	vm.Status = ""
	if vm.BindUSBPorts == nil {
		vm.BindUSBPorts = []string{}
	}
	return decode[VirtualMachine](m.c.Put(ctx, "vm/"+itoa(id), vm))
}

// Delete removes a VM definition
func (m *VM) Delete(ctx context.Context, id int) error {
	return done(m.c.Delete(ctx, "vm/"+itoa(id), nil))
}

// Start boots a VM
func (m *VM) Start(ctx context.Context, id int) error {
	return done(m.c.Post(ctx, "vm/"+itoa(id)+"/start/", nil))
}

// Stop powers a VM off
func (m *VM) Stop(ctx context.Context, id int) error {
	return done(m.c.Post(ctx, "vm/"+itoa(id)+"/stop/", nil))
}

// Restart reboots a VM
func (m *VM) Restart(ctx context.Context, id int) error {
	return done(m.c.Post(ctx, "vm/"+itoa(id)+"/restart/", nil))
}

// Distros lists the installable images
func (m *VM) Distros(ctx context.Context) ([]VMDistro, error) {
	return decode[[]VMDistro](m.c.Get(ctx, "vm/distros/"))
}

// Console attaches to the serial console of a running VM
func (m *VM) Console(ctx context.Context, id int) (*Console, error) {
	conn, err := m.c.Dial(ctx, "vm/"+itoa(id)+"/console")
	if err != nil {
		return nil, err
	}
	return &Console{conn: conn}, nil
}

// Console is a VM serial console. It reads and writes raw terminal bytes
// carried in websocket binary messages.
type Console struct {
	conn *websocket.Conn

	readMu sync.Mutex
	buf    []byte

	writeMu sync.Mutex
}

// Read returns console output
func (c *Console) Read(p []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	for len(c.buf) == 0 {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		c.buf = data
	}

	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, nil
}

// Write sends keystrokes to the console
func (c *Console) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return 0, err
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close detaches from the console
func (c *Console) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.writeMu.Unlock()
	return c.conn.Close()
}
