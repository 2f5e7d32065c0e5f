package teensymon

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DeviceDescriptor identifies one attached Teensy at enumeration time.
// Descriptors are snapshots: created fresh on each enumeration, never mutated.
type DeviceDescriptor struct {
	Path         string // device node, e.g. /dev/ttyACM0
	VendorID     string
	ProductID    string
	SerialNumber string
	Product      string
	BusNumber    string
	DeviceNumber string
}

// Mode returns the human-readable USB mode the board is presenting, based on
// its vendor/product identity.
func (d DeviceDescriptor) Mode() string {
	return teensyIdentities[usbIdentity{d.VendorID, d.ProductID}]
}

// Locator enumerates attached Teensy devices
type Locator interface {
	// Enumerate returns descriptors for all attached Teensy devices, sorted
	// by device path. A non-empty filter restricts the result to the device
	// with exactly that serial number (zero or one result).
	Enumerate(filter string) ([]DeviceDescriptor, error)
}

// usbIdentity is one vendor/product pair a Teensy can present
type usbIdentity struct {
	Vendor  string
	Product string
}

// teensyIdentities is the set of vendor/product pairs the Teensy family
// presents across its application and bootloader modes (PJRC VID 16c0).
var teensyIdentities = map[usbIdentity]string{
	{"16c0", "0478"}: "HalfKay bootloader",
	{"16c0", "0483"}: "USB Serial",
	{"16c0", "0487"}: "USB MIDI + Serial",
	{"16c0", "048b"}: "Dual USB Serial",
	{"16c0", "048c"}: "Triple USB Serial",
}

// candidatePattern matches the device node names USB serial Teensys appear as
var candidatePattern = regexp.MustCompile(`^tty(ACM|USB)\d+$`)

// SysfsLocator finds Teensy devices by scanning /dev for USB serial nodes and
// reading their USB identity out of sysfs. The zero value scans the real
// system; DevDir and SysDir exist so tests can point it at a fake tree.
type SysfsLocator struct {
	DevDir string // defaults to /dev
	SysDir string // defaults to /sys
}

var _ Locator = (*SysfsLocator)(nil)

// Enumerate implements Locator
func (l *SysfsLocator) Enumerate(filter string) ([]DeviceDescriptor, error) {
	devDir := l.DevDir
	if devDir == "" {
		devDir = "/dev"
	}

	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrEnumerationUnavailable, devDir, err)
	}

	var devices []DeviceDescriptor
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !candidatePattern.MatchString(name) {
			continue
		}

		desc, ok := l.describe(name, filepath.Join(devDir, name))
		if !ok {
			continue
		}
		if filter != "" && desc.SerialNumber != filter {
			continue
		}
		devices = append(devices, desc)
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Path < devices[j].Path })

	return devices, nil
}

// describe reads the USB identity of a tty device from sysfs and reports
// whether it belongs to the Teensy family.
func (l *SysfsLocator) describe(name, path string) (DeviceDescriptor, bool) {
	sysDir := l.SysDir
	if sysDir == "" {
		sysDir = "/sys"
	}

	devicePath := filepath.Join(sysDir, "class", "tty", name, "device")
	resolved, err := filepath.EvalSymlinks(devicePath)
	if err != nil {
		return DeviceDescriptor{}, false
	}

	// The tty's device link lands at different depths below the USB device
	// directory depending on the driver (cdc_acm vs usb-serial), so walk up
	// until we find the directory holding the USB descriptors.
	usbDir := resolved
	for i := 0; i < 4; i++ {
		if _, err := os.Stat(filepath.Join(usbDir, "idVendor")); err == nil {
			break
		}
		usbDir = filepath.Dir(usbDir)
	}

	vendor := readSysfsFile(filepath.Join(usbDir, "idVendor"))
	product := readSysfsFile(filepath.Join(usbDir, "idProduct"))
	if _, ok := teensyIdentities[usbIdentity{vendor, product}]; !ok {
		return DeviceDescriptor{}, false
	}

	return DeviceDescriptor{
		Path:         path,
		VendorID:     vendor,
		ProductID:    product,
		SerialNumber: readSysfsFile(filepath.Join(usbDir, "serial")),
		Product:      readSysfsFile(filepath.Join(usbDir, "product")),
		BusNumber:    readSysfsFile(filepath.Join(usbDir, "busnum")),
		DeviceNumber: readSysfsFile(filepath.Join(usbDir, "devnum")),
	}, true
}

// readSysfsFile reads a single-value sysfs attribute, returning "" when the
// attribute does not exist
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
