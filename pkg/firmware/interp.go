package firmware

import (
	"fmt"
	"io"
	"time"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/ccd"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/hal"
)

// Summary reports one completed capture command.
type Summary struct {
	Mean      float64   `json:"mean"`
	Stddev    float64   `json:"stddev"`
	ElapsedUS int64     `json:"elapsed_us"`
	At        time.Time `json:"at"`
}

// Notifier observes completed captures outside the response path.
type Notifier interface {
	HandleCapture(Summary)
}

// HandleCaptureFunc is the func form of Notifier.
type HandleCaptureFunc func(Summary)

// HandleCapture implements Notifier.
func (f HandleCaptureFunc) HandleCapture(s Summary) {
	f(s)
}

// Interpreter owns the sample frame and executes command lines. One
// command runs to completion at a time; handlers write their whole
// response before returning, and the activity indicator blinks around
// each command unless pinned by L.
type Interpreter struct {
	Board    hal.Board
	Notifier Notifier

	frame  [ccd.FrameLen]uint16
	forced bool // indicator pinned on by the L command
}

// New creates an interpreter driving board.
func New(board hal.Board) *Interpreter {
	return &Interpreter{Board: board}
}

// Exec runs one command line and writes the response to w. An empty
// line does nothing and produces no output. The returned error
// reports response write failures only; protocol level problems are
// response text carrying the word "error".
func (it *Interpreter) Exec(line []byte, w io.Writer) error {
	if len(line) == 0 {
		return nil
	}
	if !it.forced {
		it.Board.Indicator.Set(true)
	}
	err := it.dispatch(line, w)
	if !it.forced {
		it.Board.Indicator.Set(false)
	}
	return err
}

func (it *Interpreter) dispatch(line []byte, w io.Writer) error {
	switch line[0] {
	case 'v':
		_, err := fmt.Fprintf(w, "v %s\n", Version)
		return err
	case 'L':
		return it.setLED(line[1:], w)
	case 'a':
		_, err := fmt.Fprintf(w, "a %d\n", it.Board.ADC.ReadOnce())
		return err
	case 'b':
		return it.capture(w)
	case 'r':
		return ccd.WriteDecimal(w, it.frame[:])
	case 'q':
		return ccd.WritePacked(w, it.frame[:])
	case 'p':
		return it.sendPeriods(line[1:], w)
	}
	// Echo the offending code byte as-is.
	if _, err := w.Write(line[:1]); err != nil {
		return err
	}
	_, err := io.WriteString(w, " error: Unknown command\n")
	return err
}

// setLED drives the indicator directly. A value with its low bit set
// also pins the indicator on, suspending the activity blink until a
// later L 0 releases it.
func (it *Interpreter) setLED(args []byte, w io.Writer) error {
	toks := tokens(args)
	if len(toks) == 0 {
		_, err := io.WriteString(w, "L error: no value\n")
		return err
	}
	on := uint8(atoi(toks[0]) & 1)
	it.Board.Indicator.Set(on == 1)
	it.forced = on == 1
	_, err := fmt.Fprintf(w, "L %d\n", on)
	return err
}

func (it *Interpreter) capture(w io.Writer) error {
	elapsed := Capture(it.Board.Sync, it.Board.ADC, it.frame[:])
	mean := ccd.Mean(it.frame[:])
	stddev := ccd.Stddev(it.frame[:], mean)
	// Hosts expect %g formatting, six significant digits.
	if _, err := fmt.Fprintf(w, "b %.6g %.6g %d\n", mean, stddev, elapsed); err != nil {
		return err
	}
	if n := it.Notifier; n != nil {
		n.HandleCapture(Summary{Mean: mean, Stddev: stddev, ElapsedUS: elapsed, At: time.Now()})
	}
	return nil
}

func (it *Interpreter) sendPeriods(args []byte, w io.Writer) error {
	toks := tokens(args)
	switch len(toks) {
	case 0:
		_, err := io.WriteString(w, "p error: no value for us_SH (nor us_ICG)\n")
		return err
	case 1:
		_, err := io.WriteString(w, "p error: no value for us_ICG\n")
		return err
	}
	sh, icg := uint16(atoi(toks[0])), uint16(atoi(toks[1]))
	msg := PackPeriods(sh, icg)
	if n, err := it.Board.Periods.Write(msg[:]); err != nil || n != len(msg) {
		_, werr := io.WriteString(w, "p error: unsuccessful I2C communication\n")
		return werr
	}
	_, err := fmt.Fprintf(w, "p %d %d\n", sh, icg)
	return err
}
