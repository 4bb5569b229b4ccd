// Package serialport opens the UARTs of the bridge with short read
// timeouts so that reads never stall the control loop.
package serialport

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// DefaultReadTimeout bounds one Read on an idle port.
const DefaultReadTimeout = 2 * time.Millisecond

// Config describes one UART.
type Config struct {
	Path        string
	Baud        int
	ReadTimeout time.Duration
}

// Mode returns the 8N1 mode of the config.
func (c Config) Mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: c.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Validate checks the config before opening.
func (c Config) Validate() error {
	if c.Path == "" {
		return errors.New("serial port path required")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d for %s", c.Baud, c.Path)
	}
	return nil
}

// Open opens and configures the port. Pending input is discarded.
func Open(c Config) (serial.Port, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	port, err := serial.Open(c.Path, c.Mode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", c.Path, Describe(err))
	}
	timeout := c.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %v", c.Path, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		glog.V(1).Infof("reset input of %s: %v", c.Path, err)
	}
	glog.Infof("opened %s at %d baud", c.Path, c.Baud)
	return port, nil
}

// List returns the serial ports present.
func List() ([]string, error) {
	return serial.GetPortsList()
}

// Describe makes port errors readable.
func Describe(err error) string {
	var portErr *serial.PortError
	if !errors.As(err, &portErr) {
		return err.Error()
	}
	switch portErr.Code() {
	case serial.PortNotFound:
		return "port not found"
	case serial.PortBusy:
		return "port busy"
	case serial.PermissionDenied:
		return "permission denied"
	case serial.InvalidSpeed:
		return "unsupported baud rate"
	}
	return portErr.EncodedErrorString()
}

// IsDisconnected reports errors meaning the device went away.
func IsDisconnected(err error) bool {
	var portErr *serial.PortError
	if !errors.As(err, &portErr) {
		return false
	}
	switch portErr.Code() {
	case serial.PortNotFound, serial.PortClosed, serial.InvalidSerialPort:
		return true
	}
	return false
}
