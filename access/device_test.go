package access

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testAppID    = "fr.freebox.test"
	testAppToken = "dyNYgfK0Ya6FWGqq83sBHa7TwzWo+pg4fDFUJHShcjVYzTfaRrZzm93p7OTAfH/0"
	testAPIPath  = "/api/v8/"
)

// fakeDevice emulates the login endpoints of a Freebox and routes every
// other path under the API root to per-test handlers. Routed handlers are
// only reached with a valid session token.
type fakeDevice struct {
	t      *testing.T
	server *httptest.Server

	mu          sync.Mutex
	appToken    string
	challenge   string
	validToken  string
	challenges  int
	sessions    int
	logouts     int
	permissions map[string]bool
	routes      map[string]http.HandlerFunc
	hits        map[string]int

	// fixedChallenge replaces the generated challenge when set
	fixedChallenge string
	// loginDelay stalls GET login/ before answering
	loginDelay time.Duration
	// passwords records every password sent to POST login/session/
	passwords []string
}

func newFakeDevice(t *testing.T) *fakeDevice {
	t.Helper()

	d := &fakeDevice{
		t:           t,
		appToken:    testAppToken,
		permissions: map[string]bool{"settings": true, "contacts": false},
		routes:      make(map[string]http.HandlerFunc),
		hits:        make(map[string]int),
	}
	d.server = httptest.NewServer(http.HandlerFunc(d.serve))
	t.Cleanup(d.server.Close)
	return d
}

func (d *fakeDevice) baseURL() string {
	return d.server.URL + testAPIPath
}

func (d *fakeDevice) newAccess(t *testing.T) *Access {
	t.Helper()
	a, err := New(Config{
		BaseURL:  d.baseURL(),
		AppID:    testAppID,
		AppToken: testAppToken,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

// handle registers a handler for "METHOD path", path relative to the API root
func (d *fakeDevice) handle(route string, h http.HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[route] = h
}

// expire makes the device forget the current session
func (d *fakeDevice) expire() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.validToken = ""
}

func (d *fakeDevice) count(route string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hits[route]
}

func (d *fakeDevice) counters() (challenges, sessions, logouts int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.challenges, d.sessions, d.logouts
}

func (d *fakeDevice) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, testAPIPath)
	route := r.Method + " " + path

	d.mu.Lock()
	d.hits[route]++
	d.mu.Unlock()

	switch route {
	case "GET login/":
		d.mu.Lock()
		delay := d.loginDelay
		d.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}

		d.mu.Lock()
		d.challenges++
		d.challenge = fmt.Sprintf("challenge-%d", d.challenges)
		if d.fixedChallenge != "" {
			d.challenge = d.fixedChallenge
		}
		challenge := d.challenge
		d.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"result":  map[string]any{"logged_in": false, "challenge": challenge},
		})
		return

	case "POST login/session/":
		var req struct {
			AppID    string `json:"app_id"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			d.t.Errorf("session open body: %v", err)
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		d.passwords = append(d.passwords, req.Password)
		if req.AppID != testAppID || req.Password != Password(d.appToken, d.challenge) {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"success":    false,
				"error_code": "invalid_token",
				"msg":        "The app token you are trying to use is invalid or has been revoked",
			})
			return
		}
		d.sessions++
		d.validToken = fmt.Sprintf("session-%d", d.sessions)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"result": map[string]any{
				"session_token": d.validToken,
				"challenge":     d.challenge,
				"permissions":   d.permissions,
			},
		})
		return
	}

	d.mu.Lock()
	valid := d.validToken != "" && r.Header.Get(AuthHeader) == d.validToken
	h := d.routes[route]
	d.mu.Unlock()

	if !valid {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"success":    false,
			"error_code": "auth_required",
			"msg":        "Invalid session token, or no session token sent",
		})
		return
	}

	if route == "POST login/logout/" {
		d.mu.Lock()
		d.logouts++
		d.validToken = ""
		d.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	if h == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success":    false,
			"error_code": "invalid_request",
			"msg":        "Invalid request",
		})
		return
	}
	h(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (d *fakeDevice) receivedPasswords() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.passwords...)
}
