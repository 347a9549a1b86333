// Package hw drives the real sensor front-end through periph.io: the
// clock generator's gate line and the indicator on GPIO, an
// MCP3208-class converter on SPI, and the clock generator itself on
// I2C.
package hw

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/framework"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/hal"
)

// Config names the peripherals of the sensor front-end.
type Config struct {
	SyncPin    string
	LEDPin     string
	SPIPort    string // empty selects the default port
	ADCChannel int
	I2CBus     string // empty selects the default bus
	PeerAddr   uint16
}

type closers []io.Closer

func (c closers) Close() error {
	var errs framework.AggregatedError
	for i := len(c) - 1; i >= 0; i-- {
		errs.Add(c[i].Close())
	}
	return errs.Aggregate()
}

// Open initializes the periph host and opens every peripheral named
// in cfg. The returned closer releases the SPI port and the I2C bus.
func Open(cfg Config) (hal.Board, io.Closer, error) {
	var board hal.Board
	if _, err := host.Init(); err != nil {
		return board, nil, fmt.Errorf("init periph host: %w", err)
	}

	syncPin := gpioreg.ByName(cfg.SyncPin)
	if syncPin == nil {
		return board, nil, fmt.Errorf("no pin %q", cfg.SyncPin)
	}
	if err := syncPin.In(gpio.PullNoChange, gpio.BothEdges); err != nil {
		return board, nil, fmt.Errorf("sync pin %s: %w", syncPin, err)
	}

	ledPin := gpioreg.ByName(cfg.LEDPin)
	if ledPin == nil {
		return board, nil, fmt.Errorf("no pin %q", cfg.LEDPin)
	}
	if err := ledPin.Out(gpio.Low); err != nil {
		return board, nil, fmt.Errorf("led pin %s: %w", ledPin, err)
	}

	var cs closers
	spiPort, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return board, nil, fmt.Errorf("open spi port %q: %w", cfg.SPIPort, err)
	}
	cs = append(cs, spiPort)
	conn, err := spiPort.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		cs.Close()
		return board, nil, fmt.Errorf("connect adc: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		cs.Close()
		return board, nil, fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err)
	}
	cs = append(cs, bus)

	board.Sync = &syncLine{pin: syncPin}
	board.ADC = &mcp3208{conn: conn, channel: cfg.ADCChannel}
	board.Indicator = &ledLine{pin: ledPin}
	board.Periods = &i2c.Dev{Bus: bus, Addr: cfg.PeerAddr}
	return board, cs, nil
}
