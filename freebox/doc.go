// Package freebox is the entry point of the Freebox OS local API client.
//
// A Freebox is built from a Config and stays closed until Open is given an
// application token. The token comes from pairing, done once per
// application and device:
//
//	fbx, err := freebox.New(freebox.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	token, err := fbx.RegisterApp(ctx) // user confirms on the front panel
//	if err != nil {
//	    return err
//	}
//	// persist token, then on every run:
//	if err := fbx.Open(ctx, token); err != nil {
//	    return err
//	}
//	defer fbx.Close(ctx)
//
//	cfg, err := fbx.System.Config(ctx)
//
// The resource modules (System, LAN, WiFi, VM, ...) are plain fields and
// route every call through the session layer in package access, which opens
// and renews the session as needed.
package freebox
