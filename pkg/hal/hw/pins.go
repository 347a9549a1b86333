package hw

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// edgeRecheck bounds how long an edge wait sleeps before re-sampling
// the level, in case an edge fired between Read and WaitForEdge.
const edgeRecheck = 100 * time.Millisecond

// syncLine watches the gate pin with edge interrupts.
type syncLine struct {
	pin gpio.PinIO
}

func (s *syncLine) WaitLow()  { s.waitLevel(gpio.Low) }
func (s *syncLine) WaitHigh() { s.waitLevel(gpio.High) }

func (s *syncLine) waitLevel(level gpio.Level) {
	for s.pin.Read() != level {
		s.pin.WaitForEdge(edgeRecheck)
	}
}

// ledLine drives the indicator pin.
type ledLine struct {
	pin gpio.PinIO
}

func (l *ledLine) Set(on bool) {
	l.pin.Out(gpio.Level(on))
}
