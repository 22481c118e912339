package freebox

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

const testAppToken = "mx2WbVvsSXqbBbPUbWL7bOGAQbSpTVsL1ErUJXptETZ2PzSm3HzVlc+EcMBMf2rM"

// fakeBox emulates the unauthenticated and login endpoints of a Freebox
type fakeBox struct {
	server *httptest.Server

	mu          sync.Mutex
	statuses    []string
	polls       int
	authorizes  int
	descriptor  AppDescriptor
	sessions    int
	logouts     int
	versions    int
	deviceType  string
	apiVersion  string
	sessionSeen string
}

func newFakeBox(t *testing.T, statuses ...string) *fakeBox {
	t.Helper()

	b := &fakeBox{
		statuses:   statuses,
		deviceType: "FreeboxServer7,1",
		apiVersion: "8.2",
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBox) config(t *testing.T, apiVersion string) Config {
	t.Helper()

	host, port, err := net.SplitHostPort(strings.TrimPrefix(b.server.URL, "http://"))
	if err != nil {
		t.Fatalf("SplitHostPort() error = %v", err)
	}
	p, _ := strconv.Atoi(port)

	return Config{
		Host:       host,
		Port:       p,
		HTTPS:      false,
		APIVersion: apiVersion,
		App: AppDescriptor{
			AppID:      "fr.freebox.test",
			AppName:    "Test",
			AppVersion: "0.1",
			DeviceName: "ci",
		},
		Timeout: 2 * time.Second,
	}
}

func (b *fakeBox) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.URL.Path == "/api_version" {
		b.versions++
		writeJSON(w, map[string]any{
			"uid":             "23b86ec8091013d668829fe12791fdab",
			"device_name":     "Freebox Server",
			"device_type":     b.deviceType,
			"api_version":     b.apiVersion,
			"api_base_url":    "/api/",
			"api_domain":      "example.fbxos.fr",
			"https_available": true,
			"https_port":      3615,
			"box_model":       "fbxgw7-r1/full",
			"box_model_name":  "Freebox v7 (r1)",
		})
		return
	}

	_, path, ok := strings.Cut(r.URL.Path, "/api/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, path, _ = strings.Cut(path, "/")

	switch {
	case r.Method == http.MethodPost && path == "login/authorize/":
		b.authorizes++
		_ = json.NewDecoder(r.Body).Decode(&b.descriptor)
		writeJSON(w, map[string]any{
			"success": true,
			"result":  map[string]any{"app_token": testAppToken, "track_id": 42},
		})
	case r.Method == http.MethodGet && path == "login/authorize/42":
		status := "pending"
		if b.polls < len(b.statuses) {
			status = b.statuses[b.polls]
		}
		b.polls++
		writeJSON(w, map[string]any{
			"success": true,
			"result":  map[string]any{"status": status, "challenge": "c1"},
		})
	case r.Method == http.MethodGet && path == "login/":
		writeJSON(w, map[string]any{
			"success": true,
			"result":  map[string]any{"logged_in": false, "challenge": "c1"},
		})
	case r.Method == http.MethodPost && path == "login/session/":
		var req struct {
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		mac := hmac.New(sha1.New, []byte(testAppToken))
		mac.Write([]byte("c1"))
		if req.Password != hex.EncodeToString(mac.Sum(nil)) {
			writeJSON(w, map[string]any{"success": false, "error_code": "invalid_token", "msg": "bad password"})
			return
		}
		b.sessions++
		writeJSON(w, map[string]any{
			"success": true,
			"result": map[string]any{
				"session_token": "s" + strconv.Itoa(b.sessions),
				"permissions":   map[string]bool{"settings": true, "vm": false},
			},
		})
	case r.Method == http.MethodPost && path == "login/logout/":
		b.logouts++
		writeJSON(w, map[string]any{"success": true})
	case r.Method == http.MethodGet && path == "system/":
		b.sessionSeen = r.Header.Get("X-Fbx-App-Auth")
		writeJSON(w, map[string]any{
			"success": true,
			"result":  map[string]any{"firmware_version": "4.8.6", "uptime": "3 jours"},
		})
	default:
		http.NotFound(w, r)
	}
}

func (b *fakeBox) count(field *int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *field
}

func (b *fakeBox) lastSession() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessionSeen
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

// recorder counts sleeps and prompts without waiting
type recorder struct {
	mu      sync.Mutex
	sleeps  []time.Duration
	prompts []string
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleeps = append(r.sleeps, d)
	return ctx.Err()
}

func (r *recorder) prompt(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, message)
}

func (r *recorder) options() []Option {
	return []Option{WithSleeper(r.sleep), WithPrompter(r.prompt)}
}
