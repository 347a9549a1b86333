package host

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/ccd"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/firmware"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/hal/sim"
)

// startDevice serves a simulated instrument on the far end of a pipe.
func startDevice(t *testing.T) (*Client, *sim.Board, net.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hostEnd, devEnd := net.Pipe()
	board := sim.NewBoard(5)
	board.Sync.Period = 10 * time.Millisecond
	board.Sync.Pulse = 2 * time.Millisecond
	sess := firmware.NewSession(devEnd, firmware.New(board.HAL()))
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		hostEnd.Close()
		devEnd.Close()
		<-done
	})
	return New(hostEnd, WithTimeout(2*time.Second)), board, devEnd
}

func TestVersionRoundTrip(t *testing.T) {
	c, _, _ := startDevice(t)
	v, err := c.Version()
	require.NoError(t, err)
	require.Equal(t, firmware.Version, v)
}

func TestSetLED(t *testing.T) {
	c, board, _ := startDevice(t)
	require.NoError(t, c.SetLED(true))
	require.True(t, board.Indicator.Lit())
	require.NoError(t, c.SetLED(false))
	require.False(t, board.Indicator.Lit())
}

func TestSample(t *testing.T) {
	c, _, _ := startDevice(t)
	v, err := c.Sample()
	require.NoError(t, err)
	require.LessOrEqual(t, v, uint16(ccd.SampleMask))
}

func TestCaptureAndFetchFrame(t *testing.T) {
	c, _, _ := startDevice(t)
	s, err := c.Capture()
	require.NoError(t, err)
	require.Greater(t, s.Mean, 0.0)
	require.Greater(t, s.Stddev, 0.0)
	require.GreaterOrEqual(t, s.ElapsedUS, int64(0))

	frame, err := c.Frame()
	require.NoError(t, err)
	require.Len(t, frame, ccd.FrameLen)

	packed, err := c.FramePacked()
	require.NoError(t, err)
	require.Equal(t, frame, packed)
}

func TestSetPeriods(t *testing.T) {
	c, board, _ := startDevice(t)
	require.NoError(t, c.SetPeriods(100, 10000))
	require.Equal(t, []byte{0x00, 0x64, 0x27, 0x10}, board.Periods.Last())
}

func TestSetPeriodsRejectedClientSide(t *testing.T) {
	c, board, _ := startDevice(t)
	require.ErrorIs(t, c.SetPeriods(0, 10000), ErrBadPeriods)
	require.ErrorIs(t, c.SetPeriods(100, 5000), ErrBadPeriods)
	require.ErrorIs(t, c.SetPeriods(100, 40000), ErrBadPeriods)
	require.ErrorIs(t, c.SetPeriods(300, 10000), ErrBadPeriods)
	require.Empty(t, board.Periods.Messages())
}

func TestSetPeriodsDeviceError(t *testing.T) {
	c, board, _ := startDevice(t)
	board.Periods.Err = errors.New("nack")
	err := c.SetPeriods(100, 10000)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Contains(t, cmdErr.Response, "I2C")
}

func TestRawUnknownCommand(t *testing.T) {
	c, _, _ := startDevice(t)
	resp, err := c.Raw("x")
	require.NoError(t, err)
	require.Equal(t, "x error: Unknown command", resp)
}

func TestStaleBytesAreDrained(t *testing.T) {
	c, _, dev := startDevice(t)
	go dev.Write([]byte("stale junk\r\n"))
	time.Sleep(2 * time.Millisecond)
	v, err := c.Version()
	require.NoError(t, err)
	require.Equal(t, firmware.Version, v)
}

// scriptConn feeds canned response bytes and records requests. It has
// neither deadlines nor an input buffer reset, so draining is a no-op.
type scriptConn struct {
	in  *bytes.Buffer
	out bytes.Buffer
}

func (s *scriptConn) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *scriptConn) Write(p []byte) (int, error) { return s.out.Write(p) }

func TestResponseValidation(t *testing.T) {
	t.Run("request format", func(t *testing.T) {
		sc := &scriptConn{in: bytes.NewBufferString("L 1\n")}
		c := New(sc)
		require.NoError(t, c.SetLED(true))
		require.Equal(t, "L 1\n", sc.out.String())
	})
	t.Run("wrong code", func(t *testing.T) {
		c := New(&scriptConn{in: bytes.NewBufferString("x nope\n")})
		_, err := c.Version()
		require.ErrorIs(t, err, ErrUnexpectedResponse)
	})
	t.Run("error text", func(t *testing.T) {
		c := New(&scriptConn{in: bytes.NewBufferString("L error: no value\n")})
		err := c.SetLED(true)
		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		require.Equal(t, "L error: no value", cmdErr.Response)
	})
	t.Run("short frame", func(t *testing.T) {
		c := New(&scriptConn{in: bytes.NewBufferString("1\n2\n")})
		_, err := c.Frame()
		require.Error(t, err)
	})
}
