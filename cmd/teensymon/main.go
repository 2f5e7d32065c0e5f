package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mdjarv/teensymon"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes for the two fatal conditions, so scripts can tell them apart
const (
	exitFailure     = 1
	exitEnumeration = 2
	exitAmbiguous   = 3
)

var rootCmd = &cobra.Command{
	Use:   "teensymon",
	Short: "Monitor serial output from Teensy devices",
	Long: `Monitor serial output from Teensy USB development boards.

Waits for a Teensy to be connected, streams its serial output to stdout and,
when the board is disconnected, goes back to waiting for it to reappear.
Lines starting with a single letter followed by a colon are colorized by
severity: I: (info), D: (debug), W: (warning), E: (error), C: (critical).

Example usage:
  teensymon
  teensymon -s 1234
  teensymon -l
  teensymon --reset -s 1234

Press Ctrl+C to quit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		serialNum, _ := cmd.Flags().GetString("serial")
		list, _ := cmd.Flags().GetBool("list")
		table, _ := cmd.Flags().GetBool("table")
		reset, _ := cmd.Flags().GetBool("reset")
		verbose, _ := cmd.Flags().GetBool("verbose")

		locator := &teensymon.SysfsLocator{}

		if list {
			return listDevices(locator, table)
		}
		if reset {
			if serialNum == "" {
				return fmt.Errorf("--reset requires a serial number (-s)")
			}
			return teensymon.ResetBySerial(locator, serialNum)
		}

		return monitor(locator, serialNum, verbose)
	},
}

func init() {
	rootCmd.Flags().StringP("serial", "s", "", "Connect to the Teensy with this serial number")
	rootCmd.Flags().BoolP("list", "l", false, "List Teensy devices currently connected")
	rootCmd.Flags().BoolP("verbose", "v", false, "Turn on verbose messages")
	rootCmd.Flags().BoolP("table", "t", false, "Display the device list in a styled table")
	rootCmd.Flags().Bool("reset", false, "USB-reset the selected device and exit")
	rootCmd.Flags().Bool("no-color", false, "Disable colorized output")
	rootCmd.Flags().Duration("poll-interval", teensymon.DefaultConfig().PollInterval, "Delay between device searches")
	rootCmd.Flags().Duration("reconnect-delay", teensymon.DefaultConfig().ReconnectDelay, "Delay before reconnecting after a disconnect")

	// Flags can also be set through the environment: TEENSYMON_NO_COLOR,
	// TEENSYMON_POLL_INTERVAL, TEENSYMON_RECONNECT_DELAY
	viper.SetEnvPrefix("teensymon")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.BindPFlag("no-color", rootCmd.Flags().Lookup("no-color"))
	viper.BindPFlag("poll-interval", rootCmd.Flags().Lookup("poll-interval"))
	viper.BindPFlag("reconnect-delay", rootCmd.Flags().Lookup("reconnect-delay"))
}

// monitor runs the supervised streaming loop until interrupted
func monitor(locator teensymon.Locator, serialNum string, verbose bool) error {
	config := teensymon.DefaultConfig()
	config.PollInterval = viper.GetDuration("poll-interval")
	config.ReconnectDelay = viper.GetDuration("reconnect-delay")

	var renderer *teensymon.Renderer
	if viper.GetBool("no-color") || !isatty.IsTerminal(os.Stdout.Fd()) {
		renderer = teensymon.NewPlainRenderer(os.Stdout)
	} else {
		renderer = teensymon.NewRenderer(os.Stdout)
	}

	// Setup signal handling for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	supervisor := &teensymon.Supervisor{
		Locator: locator,
		Filter:  serialNum,
		Config:  config,
		Sink:    renderer.Render,
		Notify:  statusPrinter(serialNum, verbose),
	}

	return supervisor.Run(ctx)
}

// statusPrinter reports lifecycle events on stderr. Connect and disconnect
// notices are always shown; search and open-failure chatter only when
// verbose. Repeated searching events are collapsed into one notice.
func statusPrinter(serialNum string, verbose bool) func(teensymon.Event) {
	var lastKind teensymon.EventKind = -1

	return func(e teensymon.Event) {
		switch e.Kind {
		case teensymon.EventSearching:
			if lastKind != teensymon.EventSearching {
				if serialNum != "" {
					fmt.Fprintf(os.Stderr, "Waiting for Teensy with serial %s ...\n", serialNum)
				} else {
					fmt.Fprintln(os.Stderr, "Waiting for Teensy...")
				}
			}
		case teensymon.EventConnected:
			fmt.Fprintf(os.Stderr, "Teensy device connected @%s (serial %s)\n",
				e.Device.Path, e.Device.SerialNumber)
		case teensymon.EventDisconnected:
			fmt.Fprintf(os.Stderr, "Teensy device @%s disconnected.\n", e.Device.Path)
		case teensymon.EventOpenFailed:
			if verbose {
				fmt.Fprintf(os.Stderr, "Unable to open port %s: %v\n", e.Device.Path, e.Err)
			}
		}
		lastKind = e.Kind
	}
}

// listDevices prints the attached Teensys once and exits
func listDevices(locator teensymon.Locator, table bool) error {
	devices, err := locator.Enumerate("")
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Println("No Teensy devices detected.")
		return nil
	}

	if table {
		renderTable(devices)
		return nil
	}

	for _, d := range devices {
		fmt.Printf("Teensy device serial %-5s found @%s\n", d.SerialNumber, d.Path)
	}
	return nil
}

// renderTable renders the device list in a styled static table format
func renderTable(devices []teensymon.DeviceDescriptor) {
	fmt.Printf("Found %d Teensy device(s):\n\n", len(devices))

	serialWidth := 12
	pathWidth := 16
	idWidth := 11
	modeWidth := 20

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("240"))

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		serialWidth, "Serial",
		pathWidth, "Path",
		idWidth, "USB ID",
		modeWidth, "Mode")
	fmt.Println(headerStyle.Render(header))

	for _, d := range devices {
		row := fmt.Sprintf("%-*s %-*s %-*s %-*s",
			serialWidth, d.SerialNumber,
			pathWidth, d.Path,
			idWidth, d.VendorID+":"+d.ProductID,
			modeWidth, d.Mode())
		fmt.Println(cellStyle.Render(row))
	}
}

// exitCode maps fatal errors onto distinct process exit codes
func exitCode(err error) int {
	var ambiguous *teensymon.AmbiguousDeviceError
	switch {
	case errors.Is(err, teensymon.ErrEnumerationUnavailable):
		return exitEnumeration
	case errors.As(err, &ambiguous):
		return exitAmbiguous
	default:
		return exitFailure
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
