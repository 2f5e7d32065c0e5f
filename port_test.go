package teensymon

import (
	"context"
	"errors"
	"testing"
)

func TestGetBaudRate(t *testing.T) {
	tests := []struct {
		input    int
		hasError bool
	}{
		{9600, false},
		{57600, false},
		{115200, false},
		{4000000, false},
		{123456, true},
		{0, true},
		{-9600, true},
	}

	for _, test := range tests {
		result, err := getBaudRate(test.input)
		if test.hasError {
			if !errors.Is(err, ErrInvalidBaudRate) {
				t.Errorf("getBaudRate(%d): expected ErrInvalidBaudRate, got %v", test.input, err)
			}
		} else {
			if err != nil {
				t.Errorf("getBaudRate(%d): unexpected error %v", test.input, err)
			}
			if result == 0 {
				t.Errorf("getBaudRate(%d): got zero constant", test.input)
			}
		}
	}
}

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestOpenNonTTY(t *testing.T) {
	// /dev/null opens fine but is not a terminal, so termios setup must fail
	_, err := Open("/dev/null")
	if err == nil {
		t.Error("Expected error when opening a non-tty device")
	}
}

func TestOpenInvalidOption(t *testing.T) {
	_, err := Open("/dev/nonexistent", WithBaudRate(123456))
	if !errors.Is(err, ErrInvalidBaudRate) {
		t.Errorf("Expected ErrInvalidBaudRate, got %v", err)
	}
}

func TestClosedPortOperations(t *testing.T) {
	p := &port{fd: -1, closed: true}

	if _, err := p.Read(make([]byte, 8)); !errors.Is(err, ErrPortClosed) {
		t.Errorf("Read on closed port: got %v, expected ErrPortClosed", err)
	}
	if _, err := p.ReadContext(context.Background(), make([]byte, 8)); !errors.Is(err, ErrPortClosed) {
		t.Errorf("ReadContext on closed port: got %v, expected ErrPortClosed", err)
	}
	if _, err := p.Write([]byte("x")); !errors.Is(err, ErrPortClosed) {
		t.Errorf("Write on closed port: got %v, expected ErrPortClosed", err)
	}
	if err := p.Drain(); !errors.Is(err, ErrPortClosed) {
		t.Errorf("Drain on closed port: got %v, expected ErrPortClosed", err)
	}
	if err := p.FlushInput(); !errors.Is(err, ErrPortClosed) {
		t.Errorf("FlushInput on closed port: got %v, expected ErrPortClosed", err)
	}
	if err := p.Close(); !errors.Is(err, ErrPortClosed) {
		t.Errorf("double Close: got %v, expected ErrPortClosed", err)
	}
}

func TestReadContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The cancelled context must be observed before any syscall is attempted
	p := &port{fd: -1}
	if _, err := p.ReadContext(ctx, make([]byte, 8)); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadContext with cancelled context: got %v, expected context.Canceled", err)
	}
}
