package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/muurk/freebox/access"
)

type recordedCall struct {
	method string
	path   string
	body   any
}

// fakeCaller records calls and answers from a table keyed "METHOD path"
type fakeCaller struct {
	calls     []recordedCall
	responses map[string]*access.Response
	err       error
	dial      func(ctx context.Context, path string) (*websocket.Conn, error)
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{responses: make(map[string]*access.Response)}
}

func (f *fakeCaller) reply(route, payload string) {
	f.responses[route] = &access.Response{
		StatusCode:  200,
		ContentType: "application/json",
		Payload:     json.RawMessage(payload),
	}
}

func (f *fakeCaller) do(method, path string, body any) (*access.Response, error) {
	f.calls = append(f.calls, recordedCall{method: method, path: path, body: body})
	if f.err != nil {
		return nil, f.err
	}
	if resp, ok := f.responses[method+" "+path]; ok {
		return resp, nil
	}
	return &access.Response{StatusCode: 200, ContentType: "application/json"}, nil
}

func (f *fakeCaller) Get(_ context.Context, path string) (*access.Response, error) {
	return f.do("GET", path, nil)
}

func (f *fakeCaller) Post(_ context.Context, path string, body any) (*access.Response, error) {
	return f.do("POST", path, body)
}

func (f *fakeCaller) Put(_ context.Context, path string, body any) (*access.Response, error) {
	return f.do("PUT", path, body)
}

func (f *fakeCaller) Delete(_ context.Context, path string, body any) (*access.Response, error) {
	return f.do("DELETE", path, body)
}

func (f *fakeCaller) Dial(ctx context.Context, path string) (*websocket.Conn, error) {
	f.calls = append(f.calls, recordedCall{method: "WS", path: path})
	if f.dial == nil {
		return nil, errors.New("dial not configured")
	}
	return f.dial(ctx, path)
}

func (f *fakeCaller) last(t *testing.T) recordedCall {
	t.Helper()
	if len(f.calls) == 0 {
		t.Fatal("no call recorded")
	}
	return f.calls[len(f.calls)-1]
}

// bodyJSON re-encodes a recorded body for comparison
func bodyJSON(t *testing.T, body any) string {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	return string(data)
}

func TestEndpointPaths(t *testing.T) {
	ctx := context.Background()
	yes := true

	tests := []struct {
		name   string
		call   func(c Caller) error
		method string
		path   string
	}{
		{"system config", func(c Caller) error { _, err := NewSystem(c).Config(ctx); return err }, "GET", "system/"},
		{"system reboot", func(c Caller) error { return NewSystem(c).Reboot(ctx) }, "POST", "system/reboot/"},
		{"connection status", func(c Caller) error { _, err := NewConnection(c).Status(ctx); return err }, "GET", "connection/"},
		{"connection config", func(c Caller) error { _, err := NewConnection(c).Config(ctx); return err }, "GET", "connection/config/"},
		{"connection xdsl", func(c Caller) error { _, err := NewConnection(c).XDSL(ctx); return err }, "GET", "connection/xdsl/"},
		{"connection ftth", func(c Caller) error { _, err := NewConnection(c).FTTH(ctx); return err }, "GET", "connection/ftth/"},
		{"lan config", func(c Caller) error { _, err := NewLAN(c).Config(ctx); return err }, "GET", "lan/config/"},
		{"lan set config", func(c Caller) error { _, err := NewLAN(c).SetConfig(ctx, LANConfig{Name: "Freebox"}); return err }, "PUT", "lan/config/"},
		{"lan interfaces", func(c Caller) error { _, err := NewLAN(c).Interfaces(ctx); return err }, "GET", "lan/browser/interfaces/"},
		{"lan hosts default", func(c Caller) error { _, err := NewLAN(c).Hosts(ctx, ""); return err }, "GET", "lan/browser/pub/"},
		{"lan host", func(c Caller) error { _, err := NewLAN(c).Host(ctx, "pub", "ether-00:24:d4:7e:00:4c"); return err }, "GET", "lan/browser/pub/ether-00:24:d4:7e:00:4c"},
		{"lan update host", func(c Caller) error {
			_, err := NewLAN(c).UpdateHost(ctx, "wifiguest", "ether-x", HostUpdate{PrimaryName: "tv"})
			return err
		}, "PUT", "lan/browser/wifiguest/ether-x"},
		{"lan delete host", func(c Caller) error { return NewLAN(c).DeleteHost(ctx, "pub", "ether-x") }, "DELETE", "lan/browser/pub/ether-x"},
		{"lan wol", func(c Caller) error { return NewLAN(c).WakeOnLAN(ctx, "", "00:24:d4:7e:00:4c", "") }, "POST", "lan/wol/pub/"},
		{"wifi config", func(c Caller) error { _, err := NewWiFi(c).GlobalConfig(ctx); return err }, "GET", "wifi/config/"},
		{"wifi set config", func(c Caller) error {
			_, err := NewWiFi(c).SetGlobalConfig(ctx, WiFiConfigUpdate{Enabled: &yes})
			return err
		}, "PUT", "wifi/config/"},
		{"wifi aps", func(c Caller) error { _, err := NewWiFi(c).APs(ctx); return err }, "GET", "wifi/ap/"},
		{"wifi ap", func(c Caller) error { _, err := NewWiFi(c).AP(ctx, 1); return err }, "GET", "wifi/ap/1"},
		{"wifi stations", func(c Caller) error { _, err := NewWiFi(c).Stations(ctx, 0); return err }, "GET", "wifi/ap/0/stations/"},
		{"wifi bss", func(c Caller) error { _, err := NewWiFi(c).BSS(ctx); return err }, "GET", "wifi/bss/"},
		{"wifi mac filters", func(c Caller) error { _, err := NewWiFi(c).MACFilters(ctx); return err }, "GET", "wifi/mac_filter/"},
		{"wifi create mac filter", func(c Caller) error {
			_, err := NewWiFi(c).CreateMACFilter(ctx, MACFilter{MAC: "00:11:22:33:44:55", Type: "blacklist"})
			return err
		}, "POST", "wifi/mac_filter/"},
		{"wifi delete mac filter", func(c Caller) error { return NewWiFi(c).DeleteMACFilter(ctx, "00:11:22:33:44:55-blacklist") }, "DELETE", "wifi/mac_filter/00:11:22:33:44:55-blacklist"},
		{"dhcp config", func(c Caller) error { _, err := NewDHCP(c).Config(ctx); return err }, "GET", "dhcp/config/"},
		{"dhcp set config", func(c Caller) error { _, err := NewDHCP(c).SetConfig(ctx, DHCPConfig{Enabled: true}); return err }, "PUT", "dhcp/config/"},
		{"dhcpv6 config", func(c Caller) error { _, err := NewDHCP(c).V6Config(ctx); return err }, "GET", "dhcpv6/config/"},
		{"dhcpv6 set config", func(c Caller) error { _, err := NewDHCP(c).SetV6Config(ctx, DHCPv6Config{}); return err }, "PUT", "dhcpv6/config/"},
		{"dhcp dynamic", func(c Caller) error { _, err := NewDHCP(c).DynamicLeases(ctx); return err }, "GET", "dhcp/dynamic_lease/"},
		{"dhcp static", func(c Caller) error { _, err := NewDHCP(c).StaticLeases(ctx); return err }, "GET", "dhcp/static_lease/"},
		{"call log", func(c Caller) error { _, err := NewCall(c).Log(ctx); return err }, "GET", "call/log/"},
		{"call entry", func(c Caller) error { _, err := NewCall(c).Entry(ctx, 12); return err }, "GET", "call/log/12"},
		{"call mark read", func(c Caller) error { _, err := NewCall(c).MarkRead(ctx, 12); return err }, "PUT", "call/log/12"},
		{"call delete", func(c Caller) error { return NewCall(c).Delete(ctx, 12) }, "DELETE", "call/log/12"},
		{"call delete all", func(c Caller) error { return NewCall(c).DeleteAll(ctx) }, "POST", "call/log/delete_all/"},
		{"call mark all read", func(c Caller) error { return NewCall(c).MarkAllRead(ctx) }, "POST", "call/log/mark_all_as_read/"},
		{"contact list", func(c Caller) error { _, err := NewContactBook(c).List(ctx); return err }, "GET", "contact/"},
		{"contact get", func(c Caller) error { _, err := NewContactBook(c).Get(ctx, 3); return err }, "GET", "contact/3"},
		{"contact create", func(c Caller) error { _, err := NewContactBook(c).Create(ctx, Contact{DisplayName: "A"}); return err }, "POST", "contact/"},
		{"contact update", func(c Caller) error { _, err := NewContactBook(c).Update(ctx, 3, Contact{DisplayName: "A"}); return err }, "PUT", "contact/3"},
		{"contact delete", func(c Caller) error { return NewContactBook(c).Delete(ctx, 3) }, "DELETE", "contact/3"},
		{"contact count", func(c Caller) error { _, err := NewContactBook(c).Count(ctx); return err }, "GET", "contact/count"},
		{"contact groups", func(c Caller) error { _, err := NewContactBook(c).Groups(ctx); return err }, "GET", "contact/groups"},
		{"fs info", func(c Caller) error { _, err := NewFS(c).Info(ctx, "/Disque dur"); return err }, "GET", "fs/info/L0Rpc3F1ZSBkdXI="},
		{"fs tasks", func(c Caller) error { _, err := NewFS(c).Tasks(ctx); return err }, "GET", "fs/tasks/"},
		{"fw redirs", func(c Caller) error { _, err := NewFirewall(c).PortForwards(ctx); return err }, "GET", "fw/redir/"},
		{"fw create redir", func(c Caller) error {
			_, err := NewFirewall(c).CreatePortForward(ctx, PortForward{LanPort: 22, WanPortStart: 2222, WanPortEnd: 2222})
			return err
		}, "POST", "fw/redir/"},
		{"fw delete redir", func(c Caller) error { return NewFirewall(c).DeletePortForward(ctx, 4) }, "DELETE", "fw/redir/4"},
		{"fw dmz", func(c Caller) error { _, err := NewFirewall(c).DMZ(ctx); return err }, "GET", "fw/dmz/"},
		{"fw set dmz", func(c Caller) error { _, err := NewFirewall(c).SetDMZ(ctx, DMZConfig{}); return err }, "PUT", "fw/dmz/"},
		{"ftp config", func(c Caller) error { _, err := NewFTP(c).Config(ctx); return err }, "GET", "ftp/config/"},
		{"ftp set config", func(c Caller) error { _, err := NewFTP(c).SetConfig(ctx, FTPConfig{}); return err }, "PUT", "ftp/config/"},
		{"lcd config", func(c Caller) error { _, err := NewLCD(c).Config(ctx); return err }, "GET", "lcd/config/"},
		{"lcd set config", func(c Caller) error { _, err := NewLCD(c).SetConfig(ctx, LCDConfig{Brightness: 50}); return err }, "PUT", "lcd/config/"},
		{"storage disks", func(c Caller) error { _, err := NewStorage(c).Disks(ctx); return err }, "GET", "storage/disk/"},
		{"storage disk", func(c Caller) error { _, err := NewStorage(c).Disk(ctx, 1000); return err }, "GET", "storage/disk/1000"},
		{"storage partitions", func(c Caller) error { _, err := NewStorage(c).Partitions(ctx); return err }, "GET", "storage/partition/"},
		{"storage config", func(c Caller) error { _, err := NewStorage(c).Config(ctx); return err }, "GET", "storage/config/"},
		{"switch status", func(c Caller) error { _, err := NewSwitch(c).Status(ctx); return err }, "GET", "switch/status/"},
		{"switch port", func(c Caller) error { _, err := NewSwitch(c).PortConfig(ctx, 1); return err }, "GET", "switch/port/1"},
		{"switch set port", func(c Caller) error { _, err := NewSwitch(c).SetPortConfig(ctx, 1, SwitchPortConfig{Speed: "auto"}); return err }, "PUT", "switch/port/1"},
		{"switch stats", func(c Caller) error { _, err := NewSwitch(c).PortStats(ctx, 1); return err }, "GET", "switch/port/1/stats"},
		{"vm list", func(c Caller) error { _, err := NewVM(c).List(ctx); return err }, "GET", "vm/"},
		{"vm get", func(c Caller) error { _, err := NewVM(c).Get(ctx, 0); return err }, "GET", "vm/0"},
		{"vm create", func(c Caller) error { _, err := NewVM(c).Create(ctx, VirtualMachine{Name: "debian"}); return err }, "POST", "vm/"},
		{"vm update", func(c Caller) error { _, err := NewVM(c).Update(ctx, 0, VirtualMachine{Name: "debian"}); return err }, "PUT", "vm/0"},
		{"vm delete", func(c Caller) error { return NewVM(c).Delete(ctx, 0) }, "DELETE", "vm/0"},
		{"vm start", func(c Caller) error { return NewVM(c).Start(ctx, 0) }, "POST", "vm/0/start/"},
		{"vm stop", func(c Caller) error { return NewVM(c).Stop(ctx, 0) }, "POST", "vm/0/stop/"},
		{"vm restart", func(c Caller) error { return NewVM(c).Restart(ctx, 0) }, "POST", "vm/0/restart/"},
		{"vm distros", func(c Caller) error { _, err := NewVM(c).Distros(ctx); return err }, "GET", "vm/distros/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newFakeCaller()
			if err := tt.call(fc); err != nil {
				t.Fatalf("call error = %v", err)
			}
			if len(fc.calls) != 1 {
				t.Fatalf("calls = %d, want 1", len(fc.calls))
			}
			got := fc.last(t)
			if got.method != tt.method || got.path != tt.path {
				t.Errorf("request = %s %s, want %s %s", got.method, got.path, tt.method, tt.path)
			}
		})
	}
}

func TestErrorsPropagate(t *testing.T) {
	fc := newFakeCaller()
	fc.err = access.NewInsufficientPermissionsError("request failed", access.CodeInsufficientRights, nil)

	_, err := NewCall(fc).Log(context.Background())
	if !access.IsInsufficientPermissionsError(err) {
		t.Errorf("Log() error = %v, want insufficient permissions", err)
	}
}

func TestSystemConfig_Decode(t *testing.T) {
	fc := newFakeCaller()
	fc.reply("GET system/", `{
		"firmware_version": "4.7.3",
		"mac": "F4:CA:E5:00:00:01",
		"serial": "808107000000000",
		"uptime_val": 3600,
		"board_name": "fbxgw7r",
		"sensors": [{"id": "temp_cpum", "name": "Température CPU M", "value": 60}],
		"model_info": {"name": "fbxgw7-r1/full", "pretty_name": "Freebox v7 (r1)", "has_vm": true}
	}`)

	cfg, err := NewSystem(fc).Config(context.Background())
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	if cfg.FirmwareVersion != "4.7.3" || cfg.UptimeVal != 3600 {
		t.Errorf("Config() = %+v", cfg)
	}
	if len(cfg.Sensors) != 1 || cfg.Sensors[0].Value != 60 {
		t.Errorf("Sensors = %+v", cfg.Sensors)
	}
	if cfg.ModelInfo == nil || !cfg.ModelInfo.HasVM {
		t.Errorf("ModelInfo = %+v", cfg.ModelInfo)
	}
}

func TestLANHosts_Decode(t *testing.T) {
	fc := newFakeCaller()
	fc.reply("GET lan/browser/pub/", `[{
		"id": "ether-00:24:d4:7e:00:4c",
		"primary_name": "Freebox Player",
		"host_type": "freebox_player",
		"l2ident": {"id": "00:24:d4:7e:00:4c", "type": "mac_address"},
		"reachable": true,
		"l3connectivities": [{"addr": "192.168.1.10", "af": "ipv4", "active": true, "reachable": true}]
	}]`)

	hosts, err := NewLAN(fc).Hosts(context.Background(), DefaultInterface)
	if err != nil {
		t.Fatalf("Hosts() error = %v", err)
	}
	if len(hosts) != 1 {
		t.Fatalf("len(hosts) = %d, want 1", len(hosts))
	}
	h := hosts[0]
	if h.HostType != HostFreeboxPlayer || h.L2Ident.ID != "00:24:d4:7e:00:4c" {
		t.Errorf("host = %+v", h)
	}
	if len(h.L3Connectivities) != 1 || h.L3Connectivities[0].Addr != "192.168.1.10" {
		t.Errorf("L3Connectivities = %+v", h.L3Connectivities)
	}
}

func TestEmptyPayload(t *testing.T) {
	fc := newFakeCaller()
	hosts, err := NewLAN(fc).Hosts(context.Background(), "pub")
	if err != nil {
		t.Fatalf("Hosts() error = %v", err)
	}
	if hosts != nil {
		t.Errorf("Hosts() = %v, want nil for an empty payload", hosts)
	}
}

func TestWakeOnLAN_Body(t *testing.T) {
	fc := newFakeCaller()
	if err := NewLAN(fc).WakeOnLAN(context.Background(), "pub", "00:24:d4:7e:00:4c", "secret"); err != nil {
		t.Fatalf("WakeOnLAN() error = %v", err)
	}
	want := `{"mac":"00:24:d4:7e:00:4c","password":"secret"}`
	if got := bodyJSON(t, fc.last(t).body); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestWiFiSwitch(t *testing.T) {
	t.Run("read", func(t *testing.T) {
		fc := newFakeCaller()
		fc.reply("GET wifi/config/", `{"enabled":true,"mac_filter_state":"disabled"}`)

		enabled, err := NewWiFi(fc).Switch(context.Background(), nil)
		if err != nil {
			t.Fatalf("Switch(nil) error = %v", err)
		}
		if !enabled {
			t.Error("Switch(nil) = false, want true")
		}
		if got := fc.last(t); got.method != "GET" {
			t.Errorf("Switch(nil) sent %s, want GET", got.method)
		}
	})

	t.Run("write", func(t *testing.T) {
		fc := newFakeCaller()
		fc.reply("PUT wifi/config/", `{"enabled":false}`)
		off := false

		enabled, err := NewWiFi(fc).Switch(context.Background(), &off)
		if err != nil {
			t.Fatalf("Switch(false) error = %v", err)
		}
		if enabled {
			t.Error("Switch(false) = true, want false")
		}
		if got := bodyJSON(t, fc.last(t).body); got != `{"enabled":false}` {
			t.Errorf("body = %s", got)
		}
	})
}

func TestRequestValuesAreFresh(t *testing.T) {
	fc := newFakeCaller()
	book := NewContactBook(fc)
	ctx := context.Background()

	contact := Contact{ID: 99, DisplayName: "Alice"}
	if _, err := book.Create(ctx, contact); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if contact.ID != 99 {
		t.Error("Create() modified the caller's value")
	}
	if got := bodyJSON(t, fc.last(t).body); got != `{"display_name":"Alice"}` {
		t.Errorf("body = %s, want id stripped", got)
	}

	if _, err := NewCall(fc).MarkRead(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCall(fc).MarkRead(ctx, 2); err != nil {
		t.Fatal(err)
	}
	first := fc.calls[len(fc.calls)-2].body
	second := fc.calls[len(fc.calls)-1].body
	if bodyJSON(t, first) != `{"new":false}` || bodyJSON(t, second) != `{"new":false}` {
		t.Errorf("MarkRead bodies = %s, %s", bodyJSON(t, first), bodyJSON(t, second))
	}
}

func TestContactCount(t *testing.T) {
	fc := newFakeCaller()
	fc.reply("GET contact/count", `{"count":42}`)

	n, err := NewContactBook(fc).Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 42 {
		t.Errorf("Count() = %d, want 42", n)
	}
}

func TestVMCreate_Body(t *testing.T) {
	fc := newFakeCaller()
	_, err := NewVM(fc).Create(context.Background(), VirtualMachine{
		ID:       7,
		Name:     "debian",
		DiskPath: EncodePath("/Freebox/VMs/debian.qcow2"),
		DiskType: "qcow2",
		Memory:   2048,
		VCPUs:    2,
		Status:   VMRunning,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var sent map[string]any
	if err := json.Unmarshal([]byte(bodyJSON(t, fc.last(t).body)), &sent); err != nil {
		t.Fatal(err)
	}
	if _, ok := sent["id"]; ok {
		t.Error("create body should not carry an id")
	}
	if _, ok := sent["status"]; ok {
		t.Error("create body should not carry a status")
	}
	if ports, ok := sent["bind_usb_ports"].([]any); !ok || len(ports) != 0 {
		t.Errorf("bind_usb_ports = %v, want empty list", sent["bind_usb_ports"])
	}
}
