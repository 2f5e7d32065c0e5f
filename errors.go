package teensymon

import (
	"errors"
	"fmt"
	"strings"
)

// Predefined error types for robust error handling
var (
	ErrEnumerationUnavailable = errors.New("device registry cannot be queried")
	ErrDeviceNotFound         = errors.New("serial device not found")
	ErrPermissionDenied       = errors.New("permission denied accessing serial device")
	ErrDeviceInUse            = errors.New("serial device already in use")
	ErrInvalidBaudRate        = errors.New("invalid baud rate")
	ErrInvalidConfig          = errors.New("invalid serial configuration")
	ErrPortClosed             = errors.New("serial port is closed")

	// USB-related errors
	ErrUSBInfoNotAvailable  = errors.New("USB device information not available")
	ErrUSBResetNotAvailable = errors.New("usbreset utility not available")
)

// AmbiguousDeviceError is returned when more than one Teensy is attached and
// no serial number filter was supplied to pick one of them.
type AmbiguousDeviceError struct {
	Serials []string
}

func (e *AmbiguousDeviceError) Error() string {
	return fmt.Sprintf("multiple Teensy devices attached (serials: %s); select one with a serial number filter",
		strings.Join(e.Serials, ", "))
}
