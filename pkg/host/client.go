// Package host implements the operator side of the instrument's text
// protocol: newline-terminated commands out, newline-terminated
// response lines back, one command in flight at a time.
package host

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/ccd"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/firmware"
)

// drainWindow bounds how long draining listens for stale bytes on
// transports without an input buffer reset.
const drainWindow = 5 * time.Millisecond

// Client drives one device connection. Commands run lockstep, so
// methods must not be called concurrently. Any pending input is
// discarded before each request so a response is never matched
// against stale bytes.
type Client struct {
	rw      io.ReadWriter
	br      *bufio.Reader
	timeout time.Duration
}

// New wraps an established connection. Open and Dial are the serial
// and TCP forms.
func New(rw io.ReadWriter, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{rw: rw, br: bufio.NewReader(rw), timeout: o.Timeout}
}

// Dial connects to a daemon serving the protocol over TCP.
func Dial(addr string, opts ...Option) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn, opts...), nil
}

// Close discards in-flight bytes and closes the connection when it
// can be closed.
func (c *Client) Close() error {
	c.drain()
	if closer, ok := c.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type inputResetter interface {
	ResetInputBuffer() error
}

type deadlineReader interface {
	SetReadDeadline(time.Time) error
}

// drain discards bytes left over from earlier traffic. Serial ports
// reset their input buffer; deadline-capable transports read until a
// short silence; anything else is left untouched.
func (c *Client) drain() {
	switch t := c.rw.(type) {
	case inputResetter:
		t.ResetInputBuffer()
	case deadlineReader:
		t.SetReadDeadline(time.Now().Add(drainWindow))
		var scratch [256]byte
		for {
			n, err := c.rw.Read(scratch[:])
			if n == 0 || err != nil {
				break
			}
		}
		t.SetReadDeadline(time.Time{})
	default:
		return
	}
	c.br.Reset(c.rw)
}

// readLine returns the next response line without its terminator.
func (c *Client) readLine() (string, error) {
	if d, ok := c.rw.(deadlineReader); ok && c.timeout > 0 {
		d.SetReadDeadline(time.Now().Add(c.timeout))
		defer d.SetReadDeadline(time.Time{})
	}
	line, err := c.br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// roundTrip sends one request and validates its single response line.
func (c *Client) roundTrip(req string) (string, error) {
	c.drain()
	if _, err := io.WriteString(c.rw, req+"\n"); err != nil {
		return "", err
	}
	resp, err := c.readLine()
	if err != nil {
		return "", err
	}
	if strings.Contains(resp, "error") {
		return "", &CommandError{Request: req, Response: resp}
	}
	if len(resp) == 0 || resp[0] != req[0] {
		return "", fmt.Errorf("%w: %q to %q", ErrUnexpectedResponse, resp, req)
	}
	return resp, nil
}

// Version reports the firmware revision string.
func (c *Client) Version() (string, error) {
	resp, err := c.roundTrip("v")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimPrefix(resp, "v ")), nil
}

// SetLED drives the indicator override.
func (c *Client) SetLED(on bool) error {
	arg := "0"
	if on {
		arg = "1"
	}
	_, err := c.roundTrip("L " + arg)
	return err
}

// Sample reads one instantaneous analog conversion.
func (c *Client) Sample() (uint16, error) {
	resp, err := c.roundTrip("a")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(resp)
	if len(fields) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnexpectedResponse, resp)
	}
	v, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnexpectedResponse, resp)
	}
	return uint16(v), nil
}

// Capture triggers a synchronized frame capture and returns the
// device's summary of it. The frame itself stays on the device until
// Frame or FramePacked fetches it.
func (c *Client) Capture() (firmware.Summary, error) {
	var s firmware.Summary
	resp, err := c.roundTrip("b")
	if err != nil {
		return s, err
	}
	fields := strings.Fields(resp)
	if len(fields) != 4 {
		return s, fmt.Errorf("%w: %q", ErrUnexpectedResponse, resp)
	}
	if s.Mean, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return s, fmt.Errorf("%w: %q", ErrUnexpectedResponse, resp)
	}
	if s.Stddev, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return s, fmt.Errorf("%w: %q", ErrUnexpectedResponse, resp)
	}
	if s.ElapsedUS, err = strconv.ParseInt(fields[3], 10, 64); err != nil {
		return s, fmt.Errorf("%w: %q", ErrUnexpectedResponse, resp)
	}
	s.At = time.Now()
	return s, nil
}

// Frame fetches the captured frame as decimal samples, one per line.
func (c *Client) Frame() ([]uint16, error) {
	c.drain()
	if _, err := io.WriteString(c.rw, "r\n"); err != nil {
		return nil, err
	}
	samples := make([]uint16, 0, ccd.FrameLen)
	for i := 0; i < ccd.FrameLen; i++ {
		line, err := c.readLine()
		if err != nil {
			return nil, fmt.Errorf("frame line %d: %w", i, err)
		}
		v, err := strconv.ParseUint(line, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("frame line %d: %w", i, err)
		}
		samples = append(samples, uint16(v))
	}
	return samples, nil
}

// FramePacked fetches the captured frame via the packed base64
// report. The decoded values are identical to Frame's, for a fifth of
// the line traffic.
func (c *Client) FramePacked() ([]uint16, error) {
	c.drain()
	if _, err := io.WriteString(c.rw, "q\n"); err != nil {
		return nil, err
	}
	samples := make([]uint16, 0, ccd.FrameLen)
	for i := 0; i < ccd.FrameLen/ccd.SamplesPerLine; i++ {
		line, err := c.readLine()
		if err != nil {
			return nil, fmt.Errorf("frame line %d: %w", i, err)
		}
		vals, err := ccd.DecodePacked(line)
		if err != nil {
			return nil, fmt.Errorf("frame line %d: %w", i, err)
		}
		samples = append(samples, vals...)
	}
	return samples, nil
}

// SetPeriods checks and transmits new clock periods in microseconds.
// Nothing is sent when CheckPeriods rejects them.
func (c *Client) SetPeriods(sh, icg int) error {
	if err := CheckPeriods(sh, icg); err != nil {
		return err
	}
	_, err := c.roundTrip(fmt.Sprintf("p %d %d", sh, icg))
	return err
}

// Raw sends a verbatim command line and returns its first response
// line unchecked. The command must be one that answers.
func (c *Client) Raw(line string) (string, error) {
	c.drain()
	if _, err := io.WriteString(c.rw, strings.TrimRight(line, "\r\n")+"\n"); err != nil {
		return "", err
	}
	return c.readLine()
}
