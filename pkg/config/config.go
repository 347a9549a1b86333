// Package config defines the daemon configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML document.
type Config struct {
	Listen    Listen    `yaml:"listen"`
	Board     Board     `yaml:"board"`
	Telemetry Telemetry `yaml:"telemetry"`
}

// Listen selects the transport serving the command session.
type Listen struct {
	Kind   string `yaml:"kind"`   // serial | tcp | stdio
	Device string `yaml:"device"` // serial only
	Baud   int    `yaml:"baud"`   // serial only
	Addr   string `yaml:"addr"`   // tcp only
}

// Board selects the sensor backend.
type Board struct {
	Kind string `yaml:"kind"` // sim | hw
	Sim  Sim    `yaml:"sim"`
	HW   HW     `yaml:"hw"`
}

// Sim parameterizes the simulated board. Noise is a pointer so an
// explicit zero selects a clean trace while omission keeps the board
// default. Empty features likewise keep the default scene.
type Sim struct {
	ICGPeriodUS  int       `yaml:"icg_period_us"`
	ICGPulseUS   int       `yaml:"icg_pulse_us"`
	Seed         int64     `yaml:"seed"`
	SampleTimeUS int       `yaml:"sample_time_us"`
	DarkLevel    uint16    `yaml:"dark_level"`
	Noise        *uint16   `yaml:"noise"`
	Features     []Feature `yaml:"features"`
}

// Feature is one absorption line in the simulated scene.
type Feature struct {
	Center float64 `yaml:"center"`
	Width  float64 `yaml:"width"`
	Depth  float64 `yaml:"depth"`
}

// HW names the peripherals of a real sensor front-end.
type HW struct {
	SyncPin    string `yaml:"sync_pin"`
	LEDPin     string `yaml:"led_pin"`
	SPIPort    string `yaml:"spi_port"` // empty selects the default port
	ADCChannel int    `yaml:"adc_channel"`
	I2CBus     string `yaml:"i2c_bus"` // empty selects the default bus
	PeerAddr   uint16 `yaml:"peer_addr"`
}

// Telemetry configures MQTT publishing. An empty broker disables it.
type Telemetry struct {
	Broker      string `yaml:"broker"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML document, rejecting unknown fields, and fills
// in defaults. An empty document yields the default configuration.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.setDefaults()
	return &c, nil
}

// Default returns the configuration used when no file is given:
// a simulated board served over stdio.
func Default() *Config {
	var c Config
	c.setDefaults()
	return &c
}

func (c *Config) setDefaults() {
	if c.Listen.Kind == "" {
		c.Listen.Kind = "stdio"
	}
	if c.Listen.Baud == 0 {
		c.Listen.Baud = 115200
	}
	if c.Board.Kind == "" {
		c.Board.Kind = "sim"
	}
	if c.Board.Sim.ICGPeriodUS == 0 {
		c.Board.Sim.ICGPeriodUS = 100000
	}
	if c.Board.Sim.ICGPulseUS == 0 {
		c.Board.Sim.ICGPulseUS = 5000
	}
	if c.Board.Sim.DarkLevel == 0 {
		c.Board.Sim.DarkLevel = 3300
	}
	if c.Board.HW.PeerAddr == 0 {
		c.Board.HW.PeerAddr = 0x42
	}
	if c.Telemetry.Broker != "" && c.Telemetry.TopicPrefix == "" {
		c.Telemetry.TopicPrefix = "tcd1304"
	}
}

// Validate checks the configuration before use. It does not mutate it.
func (c *Config) Validate() error {
	switch c.Listen.Kind {
	case "serial":
		if c.Listen.Device == "" {
			return errors.New("listen: serial requires a device")
		}
		if c.Listen.Baud <= 0 {
			return errors.New("listen: baud must be positive")
		}
	case "tcp":
		if c.Listen.Addr == "" {
			return errors.New("listen: tcp requires an addr")
		}
	case "stdio":
	default:
		return fmt.Errorf("listen: unknown kind %q", c.Listen.Kind)
	}

	switch c.Board.Kind {
	case "sim":
		s := c.Board.Sim
		if s.ICGPeriodUS <= 0 || s.ICGPulseUS <= 0 {
			return errors.New("board.sim: periods must be positive")
		}
		if s.ICGPulseUS >= s.ICGPeriodUS {
			return errors.New("board.sim: pulse must be shorter than the period")
		}
		if s.SampleTimeUS < 0 {
			return errors.New("board.sim: sample time must not be negative")
		}
		for i, f := range s.Features {
			if f.Width <= 0 {
				return fmt.Errorf("board.sim: feature %d: width must be positive", i)
			}
		}
	case "hw":
		h := c.Board.HW
		if h.SyncPin == "" || h.LEDPin == "" {
			return errors.New("board.hw: sync_pin and led_pin are required")
		}
		if h.ADCChannel < 0 || h.ADCChannel > 7 {
			return errors.New("board.hw: adc_channel out of range")
		}
		if h.PeerAddr == 0 || h.PeerAddr > 0x7f {
			return errors.New("board.hw: peer_addr out of 7-bit range")
		}
	default:
		return fmt.Errorf("board: unknown kind %q", c.Board.Kind)
	}

	if c.Telemetry.Broker != "" {
		u, err := url.Parse(c.Telemetry.Broker)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("telemetry: broker %q is not a URL", c.Telemetry.Broker)
		}
	}
	return nil
}
