// =============================================================================
// SmartBill - Print Adapter
// =============================================================================
//
// This module prints receipt text. Printing runs in three steps:
//   1. Paginate the text onto a single page (see Paginate)
//   2. Ask a Selector to pick one of the available devices
//   3. Send the page to that device
//
// KNOWN LIMITATION:
//   Only the first page is printed. Lines that do not fit are dropped, the
//   Result reports how many, and a warning is logged.
//
// ERRORS:
//   - No available device, a device failure, or a cancelled context give a
//     *PrintError
//   - A Selector returning ErrCanceled is not an error: nothing is printed
//     and Print returns a Result with Canceled set
//
// =============================================================================

package printer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/smartbill/internal/config"
	"github.com/ginjaninja78/smartbill/internal/logger"
)

var (
	// ErrNoDevice is wrapped by a PrintError when no device is available.
	ErrNoDevice = errors.New("no printable device available")

	// ErrCanceled is returned by a Selector when the user backs out.
	ErrCanceled = errors.New("device selection canceled")
)

// PrintError wraps a failed print.
type PrintError struct {
	// Device is the chosen device, empty when none was chosen.
	Device string

	Err error
}

func (e *PrintError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("print failed: %v", e.Err)
	}
	return fmt.Sprintf("print failed on %s: %v", e.Device, e.Err)
}

func (e *PrintError) Unwrap() error { return e.Err }

// Selector picks the device to print on from the available ones.
type Selector func(devices []Device) (Device, error)

// First selects the first available device.
func First(devices []Device) (Device, error) {
	return devices[0], nil
}

// ByName selects the device whose Name starts with prefix.
func ByName(prefix string) Selector {
	return func(devices []Device) (Device, error) {
		for _, d := range devices {
			if strings.HasPrefix(d.Name(), prefix) {
				return d, nil
			}
		}
		return nil, fmt.Errorf("no available device named %q", prefix)
	}
}

// Result describes a finished print.
type Result struct {
	Device   string
	Page     Page
	Canceled bool
}

// Printer prints receipt text on one of its devices.
type Printer struct {
	Layout  Layout
	Devices []Device
	Log     logger.Logger
}

// New creates a Printer.
func New(layout Layout, log logger.Logger, devices ...Device) *Printer {
	if log == nil {
		log = logger.Nop()
	}
	return &Printer{Layout: layout, Devices: devices, Log: logger.Component(log, "printer")}
}

// FromConfig builds a Printer from the print settings. The configured device
// is listed first, followed by the other devices that can be derived from
// the settings.
func FromConfig(cfg config.PrintConfig, log logger.Logger) *Printer {
	layout := Layout{PageHeight: cfg.PageHeight, TopOffset: cfg.TopOffset, LinePitch: cfg.LinePitch}

	var devices []Device
	switch cfg.Device {
	case config.DeviceFile:
		devices = append(devices, NewDeviceFile(cfg.DevicePath), NewSpooler(cfg.SpoolCommand))
	case config.DevicePDF:
		devices = append(devices, NewPDFFile(cfg.DevicePath), NewSpooler(cfg.SpoolCommand))
	default:
		devices = append(devices, NewSpooler(cfg.SpoolCommand))
		if cfg.SpoolCommand != "lpr" {
			devices = append(devices, NewSpooler("lpr"))
		}
		if cfg.DevicePath != "" {
			devices = append(devices, NewPDFFile(cfg.DevicePath))
		}
	}

	return New(layout, log, devices...)
}

// Available returns the devices that can accept a job now.
func (p *Printer) Available() []Device {
	var out []Device
	for _, d := range p.Devices {
		if d.Available() {
			out = append(out, d)
		}
	}
	return out
}

// Print paginates text and prints it on the device chosen by selector.
func (p *Printer) Print(ctx context.Context, text string, selector Selector) (Result, error) {
	if selector == nil {
		selector = First
	}

	page := Paginate(text, p.Layout)
	if page.Truncated() {
		p.Log.Warn("Receipt does not fit on one page; %d lines dropped", page.Dropped)
	}

	devices := p.Available()
	if len(devices) == 0 {
		p.Log.Error("Print failed: %v", ErrNoDevice)
		return Result{Page: page}, &PrintError{Err: ErrNoDevice}
	}

	device, err := selector(devices)
	if errors.Is(err, ErrCanceled) {
		p.Log.Info("Print canceled")
		return Result{Page: page, Canceled: true}, nil
	}
	if err != nil {
		return Result{Page: page}, &PrintError{Err: err}
	}

	if err := ctx.Err(); err != nil {
		return Result{Page: page, Device: device.Name()}, &PrintError{Device: device.Name(), Err: err}
	}

	p.Log.Debug("Printing %d lines on %s", len(page.Lines), device.Name())
	if err := device.Print(ctx, Job{Page: page, Layout: p.Layout}); err != nil {
		p.Log.Error("Print failed on %s: %v", device.Name(), err)
		return Result{Page: page, Device: device.Name()}, &PrintError{Device: device.Name(), Err: err}
	}

	p.Log.Info("Printed on %s", device.Name())
	return Result{Page: page, Device: device.Name()}, nil
}
