package host

import (
	"fmt"

	"go.bug.st/serial"
)

// serialConn adapts a serial port to the Client's transport. Port
// reads signal a timeout by returning zero bytes with no error; the
// adapter turns that into ErrTimeout so line reads fail fast instead
// of spinning.
type serialConn struct {
	port serial.Port
}

func (c *serialConn) Read(p []byte) (int, error) {
	n, err := c.port.Read(p)
	if n == 0 && err == nil {
		return 0, ErrTimeout
	}
	return n, err
}

func (c *serialConn) Write(p []byte) (int, error) {
	return c.port.Write(p)
}

func (c *serialConn) Close() error {
	return c.port.Close()
}

func (c *serialConn) ResetInputBuffer() error {
	return c.port.ResetInputBuffer()
}

// Open opens the named serial device and wraps it in a Client. The
// line runs 8N1 at 115200 baud unless overridden.
func Open(device string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	mode := &serial.Mode{
		BaudRate: o.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if err := port.SetReadTimeout(o.Timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return New(&serialConn{port: port}, opts...), nil
}

// Ports enumerates candidate serial devices.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
