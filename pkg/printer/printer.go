package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

var (
	// ErrNotConfigured is returned by the null printer's Open.
	ErrNotConfigured = errors.New("printer: no printer configured")
	// ErrSurfaceUnavailable wraps any failure to open a print surface.
	ErrSurfaceUnavailable = errors.New("printer: print surface unavailable")
)

// Surface is one open print job. It must be closed after use.
type Surface interface {
	Write(data []byte) error
	Close() error
}

// Printer opens print surfaces on a device.
type Printer interface {
	// Open starts a print job.
	Open(ctx context.Context) (Surface, error)
	// IsConnected returns true if the device looks reachable.
	IsConnected() bool
	// Type names the device kind: usb, network, spool or none.
	Type() string
}

// Dispatch opens a surface on p, writes data and closes the surface whether
// or not the write succeeded. A failure to open is reported wrapped in
// ErrSurfaceUnavailable so callers can take a fallback path.
func Dispatch(ctx context.Context, p Printer, data []byte) (err error) {
	surface, err := p.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	defer func() {
		if cerr := surface.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("printer: close surface: %w", cerr)
		}
	}()

	return surface.Write(data)
}

// --- USB Printer (writes to device file, e.g. /dev/usb/lp0) ---

type usbPrinter struct {
	path string
}

// NewUSBPrinter creates a printer that writes to a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Open(_ context.Context) (Surface, error) {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("printer: failed to open USB device %s: %w", p.path, err)
	}
	return &fileSurface{f: f}, nil
}

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Type() string { return "usb" }

// --- Network Printer (dials TCP, e.g. 192.168.1.100:9100) ---

type networkPrinter struct {
	address string
	timeout time.Duration
}

// NewNetworkPrinter creates a printer that connects via TCP.
// Address should include port, e.g. "192.168.1.100:9100".
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address: address,
		timeout: 5 * time.Second,
	}
}

func (p *networkPrinter) Open(ctx context.Context) (Surface, error) {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return nil, fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return &connSurface{conn: conn, address: p.address}, nil
}

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Type() string { return "network" }

// --- Spool Printer (writes each job to a file for the OS print queue) ---

type spoolPrinter struct {
	dir string
	ext string
	now func() time.Time
	seq atomic.Uint64
}

// NewSpoolPrinter writes each job to its own file in dir. It is the
// fallback when the receipt printer cannot be reached.
func NewSpoolPrinter(dir, ext string) Printer {
	return &spoolPrinter{dir: dir, ext: ext, now: time.Now}
}

func (p *spoolPrinter) Open(_ context.Context) (Surface, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, fmt.Errorf("printer: create spool dir %s: %w", p.dir, err)
	}
	name := filepath.Join(p.dir, fmt.Sprintf("receipt-%d-%d%s", p.now().UnixNano(), p.seq.Add(1), p.ext))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("printer: create spool file: %w", err)
	}
	return &fileSurface{f: f}, nil
}

func (p *spoolPrinter) IsConnected() bool {
	info, err := os.Stat(p.dir)
	return err == nil && info.IsDir()
}

func (p *spoolPrinter) Type() string { return "spool" }

// --- Null Printer (used when no printer is configured) ---

type nullPrinter struct{}

// NewNullPrinter creates a printer whose Open always fails, sending every
// job down the fallback path.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Open(context.Context) (Surface, error) {
	return nil, ErrNotConfigured
}

func (p *nullPrinter) IsConnected() bool {
	return false
}

func (p *nullPrinter) Type() string { return "none" }

// --- surfaces ---

type fileSurface struct {
	f *os.File
}

func (s *fileSurface) Write(data []byte) error {
	if _, err := s.f.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", s.f.Name(), err)
	}
	return nil
}

func (s *fileSurface) Close() error {
	return s.f.Close()
}

type connSurface struct {
	conn    net.Conn
	address string
}

func (s *connSurface) Write(data []byte) error {
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", s.address, err)
	}
	return nil
}

func (s *connSurface) Close() error {
	return s.conn.Close()
}

// NewPrinterFromConfig creates the appropriate Printer based on type.
//
//	printerType: "usb", "network", or "none"
//	usbPath: device path for USB printers (e.g. "/dev/usb/lp0")
//	address: TCP address for network printers (e.g. "192.168.1.100:9100")
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBPrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(address), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
}
