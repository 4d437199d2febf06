// =============================================================================
// SmartBill - Print Devices
// =============================================================================
//
// This module defines the devices a receipt page can be sent to.
//
// DEVICES:
//   - Spooler: pipes the page text to a print command (lp, lpr)
//   - DeviceFile: writes the text to a character device or file
//   - PDFFile: lays the page out in Courier and saves it as a PDF
//
// =============================================================================

package printer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ginjaninja78/smartbill/pkg/utils"
)

// Job is one print request.
type Job struct {
	Page   Page
	Layout Layout
}

// Device is an output a page can be printed on.
type Device interface {
	// Name identifies the device in prompts and logs.
	Name() string

	// Available reports whether the device can accept a job right now.
	Available() bool

	// Print sends the job to the device.
	Print(ctx context.Context, job Job) error
}

// --- Host spooler (lp / lpr) ---

// Spooler pipes a rendered PDF page to the host print spooler.
type Spooler struct {
	// Command is the spooler executable, e.g. "lp" or "lpr".
	Command string

	// Args are extra arguments passed before the job is piped on stdin.
	Args []string
}

// NewSpooler creates a spooler device.
func NewSpooler(command string, args ...string) *Spooler {
	return &Spooler{Command: command, Args: args}
}

func (s *Spooler) Name() string { return "spooler (" + s.Command + ")" }

func (s *Spooler) Available() bool {
	if s.Command == "" {
		return false
	}
	_, err := exec.LookPath(s.Command)
	return err == nil
}

func (s *Spooler) Print(ctx context.Context, job Job) error {
	data, err := RenderPDF(job.Page, job.Layout)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Stdin = bytes.NewReader(data)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("printer: %s failed: %w: %s", s.Command, err, msg)
		}
		return fmt.Errorf("printer: %s failed: %w", s.Command, err)
	}
	return nil
}

// --- Device file (e.g. /dev/usb/lp0) ---

// DeviceFile writes raw receipt text to a character device or file.
type DeviceFile struct {
	Path string
}

// NewDeviceFile creates a device-file printer.
func NewDeviceFile(path string) *DeviceFile {
	return &DeviceFile{Path: path}
}

func (d *DeviceFile) Name() string { return "device " + d.Path }

func (d *DeviceFile) Available() bool {
	if d.Path == "" {
		return false
	}
	_, err := os.Stat(d.Path)
	return err == nil
}

func (d *DeviceFile) Print(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(d.Path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("printer: failed to open device %s: %w", d.Path, err)
	}
	defer f.Close()

	// form feed ejects the page
	if _, err := f.WriteString(job.Page.Text() + "\f"); err != nil {
		return fmt.Errorf("printer: failed to write to device %s: %w", d.Path, err)
	}
	return nil
}

// --- PDF file ---

// PDFFile saves the rendered page as a PDF document.
type PDFFile struct {
	Path string
}

// NewPDFFile creates a PDF-file printer. ".pdf" is appended when missing.
func NewPDFFile(path string) *PDFFile {
	return &PDFFile{Path: utils.EnsureExtension(path, ".pdf")}
}

func (p *PDFFile) Name() string { return "pdf " + p.Path }

func (p *PDFFile) Available() bool { return p.Path != "" }

func (p *PDFFile) Print(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := RenderPDF(job.Page, job.Layout)
	if err != nil {
		return err
	}
	if err := utils.EnsureDirectory(filepath.Dir(p.Path)); err != nil {
		return err
	}
	if err := os.WriteFile(p.Path, data, 0o644); err != nil {
		return fmt.Errorf("printer: failed to write %s: %w", p.Path, err)
	}
	return nil
}

// --- Rendering ---

const pointsToMM = 25.4 / 72

// RenderPDF draws a laid-out page in a monospaced font. Each line sits in a
// row one line pitch high, starting at the layout's top offset.
func RenderPDF(page Page, layout Layout) ([]byte, error) {
	pitch := layout.LinePitch * pointsToMM
	top := layout.TopOffset*pointsToMM - pitch
	if top < 0 {
		top = 0
	}

	cfg := config.NewBuilder().
		WithTopMargin(top).
		WithLeftMargin(20 * pointsToMM).
		WithRightMargin(20 * pointsToMM).
		Build()

	m := maroto.New(cfg)

	style := props.Text{Family: fontfamily.Courier, Size: 10}
	for _, line := range page.Lines {
		// blank receipt lines still occupy a row
		content := line.Text
		if content == "" {
			content = " "
		}
		m.AddRow(pitch, col.New(12).Add(text.New(content, style)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("printer: failed to render page: %w", err)
	}
	return doc.GetBytes(), nil
}
