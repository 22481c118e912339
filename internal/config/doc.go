// Package config stores the pairing state of the freebox CLI.
//
// Pairing a client with a Freebox yields a long-lived application token.
// The library itself never persists it; this package is where the CLI keeps
// one token per Freebox host in a YAML file.
//
// # Configuration File Location
//
//   - $FREEBOX_CONFIG when set
//   - Linux: $XDG_CONFIG_HOME/freebox/config.yaml or $HOME/.config/freebox/config.yaml
//   - macOS: $HOME/.config/freebox/config.yaml
//   - Windows: %LOCALAPPDATA%\freebox\config.yaml
//
// # Security
//
// The file holds secrets. It is always written with mode 0600 through a
// temporary file and an atomic rename.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.StorePairing("mafreebox.freebox.fr", config.Pairing{
//	    AppID:    "fbxgo",
//	    AppToken: token,
//	    TrackID:  trackID,
//	})
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
package config
