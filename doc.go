// Package teensymon continuously streams serial output from Teensy USB
// development boards to a terminal, surviving unplug/replug cycles and
// colorizing lines by their severity tag.
//
// The package is built from three pieces:
//
//   - a device locator that finds attached Teensys by their USB identity,
//     optionally narrowed to one board by serial number
//   - a connection supervisor that opens the device, streams bytes, detects
//     disconnection and transparently reconnects
//   - a line classifier that maps a leading "<letter>:" tag to a severity
//     and render color
//
// # Monitoring
//
// Wire a locator, a renderer and a supervisor together and run it:
//
//	sup := &teensymon.Supervisor{
//	    Locator: &teensymon.SysfsLocator{},
//	    Config:  teensymon.DefaultConfig(),
//	    Sink:    teensymon.NewRenderer(os.Stdout).Render,
//	}
//	err := sup.Run(ctx)
//
// Run loops until ctx is cancelled. Unplugging the board is not an error:
// the supervisor closes the port, waits the reconnect delay and searches
// again. Only two conditions are fatal: the device registry itself cannot
// be queried (ErrEnumerationUnavailable), or several boards are attached
// with no serial number filter to pick one (*AmbiguousDeviceError).
//
// # Line tags
//
// Device output lines starting with a single tag letter followed by a colon
// are colorized:
//
//	I: informational, no color
//	D: debug, light blue
//	W: warning, light yellow
//	E: error, light red
//	C: critical, light red
//
// Anything else renders unstyled. The tag is part of the line and is
// emitted unmodified.
//
// # Device discovery
//
// List attached boards without monitoring:
//
//	devices, err := (&teensymon.SysfsLocator{}).Enumerate("")
//	for _, d := range devices {
//	    fmt.Printf("%s %s (%s:%s %s)\n",
//	        d.SerialNumber, d.Path, d.VendorID, d.ProductID, d.Mode())
//	}
//
// Discovery is Linux-only: it scans /dev for USB serial nodes and reads the
// USB identity from sysfs.
package teensymon
