package teensymon

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// ResetDevice performs a USB-level reset of one enumerated device. This can
// recover a board that is hung with its serial port unresponsive.
//
// Requires the usbreset utility (usbutils package) and sufficient
// permissions, typically root.
func ResetDevice(device DeviceDescriptor) error {
	if device.BusNumber == "" || device.DeviceNumber == "" {
		return ErrUSBInfoNotAvailable
	}

	if !IsUSBResetAvailable() {
		return ErrUSBResetNotAvailable
	}

	usbPath, err := usbResetPath(device.BusNumber, device.DeviceNumber)
	if err != nil {
		return err
	}

	cmd := exec.Command("usbreset", usbPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("usbreset failed: %w (output: %s)", err, string(output))
	}

	// Give the device time to re-enumerate before the caller searches again
	time.Sleep(2 * time.Second)

	return nil
}

// ResetBySerial resets the attached Teensy with the given serial number
func ResetBySerial(locator Locator, serialNumber string) error {
	devices, err := locator.Enumerate(serialNumber)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return fmt.Errorf("%w: no Teensy with serial %s", ErrDeviceNotFound, serialNumber)
	}
	return ResetDevice(devices[0])
}

// usbResetPath builds the BBB/DDD argument usbreset expects, with
// zero-padded 3-digit bus and device numbers
func usbResetPath(bus, device string) (string, error) {
	busNum, err := strconv.Atoi(bus)
	if err != nil {
		return "", fmt.Errorf("%w: bad bus number %q", ErrUSBInfoNotAvailable, bus)
	}
	devNum, err := strconv.Atoi(device)
	if err != nil {
		return "", fmt.Errorf("%w: bad device number %q", ErrUSBInfoNotAvailable, device)
	}
	return fmt.Sprintf("%03d/%03d", busNum, devNum), nil
}

// IsUSBResetAvailable checks if the usbreset utility is available in PATH
func IsUSBResetAvailable() bool {
	_, err := exec.LookPath("usbreset")
	return err == nil
}
