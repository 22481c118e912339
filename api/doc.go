// Package api provides typed wrappers for the Freebox OS resource endpoints.
//
// Every module is a thin struct over a Caller, normally the *access.Access
// owned by a freebox.Freebox. A module method maps to exactly one endpoint:
// it builds a fresh request value, sends it through the session layer and
// decodes the payload into a Go type.
//
// # Usage Example
//
//	fbx, _ := freebox.New(freebox.DefaultConfig())
//	if err := fbx.Open(ctx, appToken); err != nil {
//	    log.Fatal(err)
//	}
//	defer fbx.Close(ctx)
//
//	hosts, err := fbx.LAN.Hosts(ctx, api.DefaultInterface)
//
// # Paths
//
// File system endpoints take clear text paths; FS encodes them in base64
// as the device expects. Decoded results keep the device encoding, use
// FileInfo.DecodedPath to read them.
//
// # Websockets
//
// VM.Console and Events.Subscribe open authenticated websockets through
// Caller.Dial and share the session of the HTTP calls.
package api
