package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net"
	"os"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/config"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/firmware"
	fx "github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/framework"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/hal"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/hal/hw"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/hal/sim"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/telemetry"
)

// reopenDelay paces retries after a lost or unopenable serial device.
const reopenDelay = 2 * time.Second

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "Path of the YAML configuration file.")
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			glog.Exitf("load config: %v", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		glog.Exitf("invalid config: %v", err)
	}

	board, closer, err := buildBoard(cfg)
	if err != nil {
		glog.Exitf("open board: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	interp := firmware.New(board)
	if cfg.Telemetry.Broker != "" {
		pub, err := telemetry.New(cfg.Telemetry.Broker, cfg.Telemetry.TopicPrefix)
		if err != nil {
			glog.Exitf("telemetry: %v", err)
		}
		if err := pub.Connect(); err != nil {
			glog.Exitf("telemetry connect: %v", err)
		}
		defer pub.Close()
		interp.Notifier = pub.Notifier()
		glog.Infof("publishing summaries under %s", pub.Topic("capture"))
	}

	glog.Info(firmware.Version)
	err = fx.NewRunner().
		HandleSignals().
		Go(fx.NamedRun(cfg.Listen.Kind, serveRunnable(cfg, interp))).
		Wait()
	if err != nil {
		glog.Exit(err)
	}
}

func buildBoard(cfg *config.Config) (hal.Board, io.Closer, error) {
	if cfg.Board.Kind == "hw" {
		h := cfg.Board.HW
		return hw.Open(hw.Config{
			SyncPin:    h.SyncPin,
			LEDPin:     h.LEDPin,
			SPIPort:    h.SPIPort,
			ADCChannel: h.ADCChannel,
			I2CBus:     h.I2CBus,
			PeerAddr:   h.PeerAddr,
		})
	}
	s := cfg.Board.Sim
	board := sim.NewBoard(s.Seed)
	board.Sync.Period = time.Duration(s.ICGPeriodUS) * time.Microsecond
	board.Sync.Pulse = time.Duration(s.ICGPulseUS) * time.Microsecond
	board.ADC.DarkLevel = s.DarkLevel
	board.ADC.SampleTime = time.Duration(s.SampleTimeUS) * time.Microsecond
	if s.Noise != nil {
		board.ADC.Noise = *s.Noise
	}
	if len(s.Features) > 0 {
		feats := make([]sim.Feature, len(s.Features))
		for i, f := range s.Features {
			feats[i] = sim.Feature{Center: f.Center, Width: f.Width, Depth: f.Depth}
		}
		board.ADC.Features = feats
	}
	return board.HAL(), nil, nil
}

func serveRunnable(cfg *config.Config, interp *firmware.Interpreter) fx.Runnable {
	listen := cfg.Listen
	switch listen.Kind {
	case "serial":
		return fx.RunnableFunc(func(ctx context.Context) error {
			return serveSerial(ctx, listen, interp)
		})
	case "tcp":
		return fx.RunnableFunc(func(ctx context.Context) error {
			return serveTCP(ctx, listen.Addr, interp)
		})
	default:
		return fx.RunnableFunc(func(ctx context.Context) error {
			return serveStdio(ctx, interp)
		})
	}
}

// serveSerial runs one session on the device, reopening it after
// errors until the context ends.
func serveSerial(ctx context.Context, listen config.Listen, interp *firmware.Interpreter) error {
	mode := &serial.Mode{
		BaudRate: listen.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		port, err := serial.Open(listen.Device, mode)
		if err != nil {
			glog.Warningf("open %s: %v", listen.Device, err)
		} else {
			glog.Infof("serving %s at %d baud", listen.Device, listen.Baud)
			err = fx.RunWithContextCloser(ctx, port, func() error {
				return firmware.NewSession(port, interp).Run(ctx)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				glog.Warningf("session on %s: %v", listen.Device, err)
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reopenDelay):
		}
	}
}

// serveTCP accepts one connection at a time; further dials wait in
// the accept backlog so the single-client protocol holds.
func serveTCP(ctx context.Context, addr string, interp *firmware.Interpreter) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	glog.Infof("listening on %s", ln.Addr())
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			glog.Infof("session from %s", conn.RemoteAddr())
			err = fx.RunWithContextCloser(ctx, conn, func() error {
				return firmware.NewSession(conn, interp).Run(ctx)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				glog.Warningf("session from %s: %v", conn.RemoteAddr(), err)
			}
		}
	})
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// serveStdio runs one session over stdin/stdout, ending when stdin
// closes.
func serveStdio(ctx context.Context, interp *firmware.Interpreter) error {
	glog.Info("serving stdio")
	err := fx.RunWithContextCloser(ctx, os.Stdin, func() error {
		return firmware.NewSession(stdio{}, interp).Run(ctx)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
