package teensymon

import (
	"context"
	"os"
	"time"
)

// supervisorState is one state of the reconnect state machine
type supervisorState int

const (
	stateSearching supervisorState = iota
	stateConnected
	stateBackoff
)

// EventKind identifies a supervisor lifecycle event
type EventKind int

const (
	EventSearching    EventKind = iota // no device found, will poll again
	EventConnected                     // device opened, streaming
	EventDisconnected                  // device lost, entering backoff
	EventOpenFailed                    // device found but open failed (transient)
)

// Event is a lifecycle notification emitted by the Supervisor. Events are an
// observability hook; they carry no control flow.
type Event struct {
	Kind   EventKind
	Device DeviceDescriptor // valid for Connected, Disconnected, OpenFailed
	Err    error            // valid for OpenFailed
}

// Supervisor owns the search/connect/backoff loop for exactly one device
// stream. It holds at most one open Port at any instant, and always closes it
// before opening another or before Run returns. Multiple Supervisors can
// coexist; they share no state.
type Supervisor struct {
	Locator Locator
	Config  Config

	// Filter is an optional serial number passed through to Enumerate.
	Filter string

	// Sink receives every assembled line, in device order.
	Sink func(LogLine) error

	// Notify, when set, observes lifecycle events.
	Notify func(Event)

	// OpenPort opens the device node; defaults to Open. Injectable for tests.
	OpenPort func(device string, opts ...Option) (Port, error)
}

// Run drives the state machine until ctx is cancelled or a fatal condition
// occurs. It returns nil on cancellation, ErrEnumerationUnavailable (wrapped)
// when the device registry cannot be queried, and *AmbiguousDeviceError when
// several devices match with no filter. Transient conditions (no device,
// open failure, disconnect) never surface as errors.
func (s *Supervisor) Run(ctx context.Context) error {
	open := s.OpenPort
	if open == nil {
		open = Open
	}

	state := stateSearching
	var conn Port
	var device DeviceDescriptor

	for {
		if ctx.Err() != nil {
			return nil
		}

		switch state {
		case stateSearching:
			devices, err := s.Locator.Enumerate(s.Filter)
			if err != nil {
				return err
			}

			switch len(devices) {
			case 0:
				s.notify(Event{Kind: EventSearching})
				if !sleepCtx(ctx, s.Config.PollInterval) {
					return nil
				}

			case 1:
				device = devices[0]
				conn, err = open(device.Path,
					WithBaudRate(s.Config.BaudRate),
					WithReadTimeout(s.Config.ReadTimeoutTenths),
				)
				if err != nil {
					// Permission or busy: transient, same as not found
					s.notify(Event{Kind: EventOpenFailed, Device: device, Err: err})
					if !sleepCtx(ctx, s.Config.PollInterval) {
						return nil
					}
					continue
				}
				s.notify(Event{Kind: EventConnected, Device: device})
				state = stateConnected

			default:
				serials := make([]string, len(devices))
				for i, d := range devices {
					serials[i] = d.SerialNumber
				}
				return &AmbiguousDeviceError{Serials: serials}
			}

		case stateConnected:
			err := s.stream(ctx, conn, device)
			conn.Close()
			conn = nil
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				return err
			}
			s.notify(Event{Kind: EventDisconnected, Device: device})
			state = stateBackoff

		case stateBackoff:
			if !sleepCtx(ctx, s.Config.ReconnectDelay) {
				return nil
			}
			state = stateSearching
		}
	}
}

// stream reads from conn until disconnect or cancellation, forwarding each
// completed line to the sink as soon as it is assembled. A non-empty
// unterminated tail is flushed as a final partial line before returning, so
// no later connection can emit output ahead of it. The returned error is
// non-nil only when the sink failed; disconnects return nil.
func (s *Supervisor) stream(ctx context.Context, conn Port, device DeviceDescriptor) error {
	var asm LineAssembler
	buf := make([]byte, 4096)

	flush := func() error {
		if line, ok := asm.Flush(); ok {
			return s.Sink(line)
		}
		return nil
	}

	for {
		if ctx.Err() != nil {
			return flush()
		}

		n, err := conn.Read(buf)
		if n > 0 {
			for _, line := range asm.Feed(buf[:n]) {
				if sinkErr := s.Sink(line); sinkErr != nil {
					return sinkErr
				}
			}
		}
		if err != nil {
			// Read error or end-of-stream: the device is gone
			return flush()
		}
		if n == 0 {
			// Poll timeout with no data. A silent device is fine, but a
			// vanished device node means the hardware was unplugged without
			// the read failing yet.
			if _, statErr := os.Stat(device.Path); statErr != nil {
				return flush()
			}
		}
	}
}

func (s *Supervisor) notify(e Event) {
	if s.Notify != nil {
		s.Notify(e)
	}
}

// sleepCtx waits for d, returning false if ctx was cancelled first
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
