package freebox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/muurk/freebox/access"
)

// deviceTypePrefix is the device_type prefix of every Freebox Server
const deviceTypePrefix = "FreeboxServer"

// APIInfo is what a Freebox reports about itself on /api_version
type APIInfo struct {
	UID            string `json:"uid"`
	DeviceName     string `json:"device_name"`
	DeviceType     string `json:"device_type"`
	APIVersion     string `json:"api_version"`
	APIBaseURL     string `json:"api_base_url"`
	APIDomain      string `json:"api_domain"`
	HTTPSAvailable bool   `json:"https_available"`
	HTTPSPort      int    `json:"https_port"`
	BoxModel       string `json:"box_model"`
	BoxModelName   string `json:"box_model_name"`
}

// MajorVersion returns the version path segment, e.g. "v8" for "8.2"
func (i APIInfo) MajorVersion() (string, error) {
	major, _, _ := strings.Cut(i.APIVersion, ".")
	if major == "" {
		return "", access.NewRequestError(fmt.Sprintf("invalid api_version %q", i.APIVersion), nil)
	}
	for _, r := range major {
		if r < '0' || r > '9' {
			return "", access.NewRequestError(fmt.Sprintf("invalid api_version %q", i.APIVersion), nil)
		}
	}
	return "v" + major, nil
}

// BaseURL returns the versioned API root on rootURL
func (i APIInfo) BaseURL(rootURL string) (string, error) {
	version, err := i.MajorVersion()
	if err != nil {
		return "", err
	}
	prefix := strings.Trim(i.APIBaseURL, "/")
	if prefix == "" {
		prefix = "api"
	}
	return strings.TrimSuffix(rootURL, "/") + "/" + prefix + "/" + version + "/", nil
}

// DiscoverAPI asks the device for its API version. The answer is cached for
// the lifetime of the client.
func (f *Freebox) DiscoverAPI(ctx context.Context) (*APIInfo, error) {
	f.mu.Lock()
	cached := f.info
	f.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	info, err := DiscoverAPI(ctx, f.http, f.cfg.RootURL())
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.info = info
	f.mu.Unlock()
	return info, nil
}

// DiscoverAPI fetches rootURL/api_version. The endpoint is unauthenticated
// and answers a bare JSON object rather than an envelope.
func DiscoverAPI(ctx context.Context, client *http.Client, rootURL string) (*APIInfo, error) {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := fetch(ctx, client, http.MethodGet, strings.TrimSuffix(rootURL, "/")+"/api_version", nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, access.NewAPIError(fmt.Sprintf("api_version returned status %d", resp.StatusCode), "", resp.StatusCode, resp.body)
	}

	var info APIInfo
	if err := json.Unmarshal(resp.body, &info); err != nil {
		return nil, &access.Error{
			Type:     access.ErrTypeRequest,
			Message:  "failed to parse api_version response",
			Envelope: resp.body,
			Err:      err,
		}
	}
	if !strings.HasPrefix(info.DeviceType, deviceTypePrefix) {
		return nil, access.NewRequestError(fmt.Sprintf("device type %q is not a Freebox Server", info.DeviceType), nil)
	}
	return &info, nil
}
