package api

import "context"

// LCDConfig controls the front panel display
type LCDConfig struct {
	Brightness        int   `json:"brightness"`
	Orientation       int   `json:"orientation"`
	OrientationForced bool  `json:"orientation_forced"`
	HideWifiKey       *bool `json:"hide_wifi_key,omitempty"`
}

// LCD exposes lcd/ endpoints
type LCD struct {
	c Caller
}

// NewLCD creates the front panel module
func NewLCD(c Caller) *LCD {
	return &LCD{c: c}
}

// Config returns the display configuration
func (m *LCD) Config(ctx context.Context) (LCDConfig, error) {
	return decode[LCDConfig](m.c.Get(ctx, "lcd/config/"))
}

// SetConfig updates the display configuration
func (m *LCD) SetConfig(ctx context.Context, cfg LCDConfig) (LCDConfig, error) {
	return decode[LCDConfig](m.c.Put(ctx, "lcd/config/", cfg))
}
