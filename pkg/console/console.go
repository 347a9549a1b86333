// Package console provides the interactive operator shell over one
// device connection.
package console

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/ccd"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/host"
)

const clientKey = "$client"

// Console wraps an ishell bound to one device client.
type Console struct {
	Shell  *ishell.Shell
	Client *host.Client
}

// New creates the shell with the full command set.
func New(client *host.Client) *Console {
	con := &Console{Shell: ishell.New(), Client: client}
	con.Shell.Set(clientKey, client)
	con.Shell.SetPrompt("tcd1304 > ")
	for _, cmd := range commands {
		con.Shell.AddCmd(cmd)
	}
	return con
}

// ClientFrom gets the device client from ishell context.
func ClientFrom(c *ishell.Context) *host.Client {
	return c.Get(clientKey).(*host.Client)
}

// Run processes args as a single command when present, otherwise
// serves the interactive prompt until exit.
func (con *Console) Run(args ...string) error {
	if len(args) > 0 {
		return con.Shell.Process(args...)
	}
	con.Shell.Run()
	return nil
}

var commands = []*ishell.Cmd{
	&VersionCmd,
	&LEDCmd,
	&SampleCmd,
	&CaptureCmd,
	&FrameCmd,
	&PackedCmd,
	&PeriodsCmd,
	&RawCmd,
}

// fetchFrame fetches one frame and prints it, or writes it to the
// file named by the first argument.
func fetchFrame(c *ishell.Context, packed bool) {
	client := ClientFrom(c)
	var samples []uint16
	var err error
	if packed {
		samples, err = client.FramePacked()
	} else {
		samples, err = client.Frame()
	}
	if err != nil {
		c.Err(err)
		return
	}
	if len(c.Args) > 0 {
		f, err := os.Create(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		defer f.Close()
		if err := ccd.WriteDecimal(f, samples); err != nil {
			c.Err(err)
			return
		}
		c.Printf("%d samples written to %s\n", len(samples), c.Args[0])
		return
	}
	for _, v := range samples {
		c.Println(v)
	}
}

var (
	// VersionCmd prints the firmware revision.
	VersionCmd = ishell.Cmd{
		Name:    "version",
		Aliases: []string{"v"},
		Func: func(c *ishell.Context) {
			v, err := ClientFrom(c).Version()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(v)
		},
	}

	// LEDCmd pins the indicator on or off.
	LEDCmd = ishell.Cmd{
		Name:    "led",
		Aliases: []string{"L"},
		Help:    "0|1",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("value expected: 0 or 1"))
				return
			}
			v, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			if err := ClientFrom(c).SetLED(v&1 == 1); err != nil {
				c.Err(err)
			}
		},
	}

	// SampleCmd reads one instantaneous conversion.
	SampleCmd = ishell.Cmd{
		Name:    "sample",
		Aliases: []string{"a"},
		Func: func(c *ishell.Context) {
			v, err := ClientFrom(c).Sample()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(v)
		},
	}

	// CaptureCmd runs one synchronized capture.
	CaptureCmd = ishell.Cmd{
		Name:    "capture",
		Aliases: []string{"b"},
		Func: func(c *ishell.Context) {
			s, err := ClientFrom(c).Capture()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("mean %.6g stddev %.6g elapsed %dus\n", s.Mean, s.Stddev, s.ElapsedUS)
		},
	}

	// FrameCmd fetches the frame in decimal.
	FrameCmd = ishell.Cmd{
		Name:    "frame",
		Aliases: []string{"r"},
		Help:    "[FILE]",
		Func: func(c *ishell.Context) {
			fetchFrame(c, false)
		},
	}

	// PackedCmd fetches the frame via the packed report.
	PackedCmd = ishell.Cmd{
		Name:    "packed",
		Aliases: []string{"q"},
		Help:    "[FILE]",
		Func: func(c *ishell.Context) {
			fetchFrame(c, true)
		},
	}

	// PeriodsCmd checks and sends new clock periods.
	PeriodsCmd = ishell.Cmd{
		Name:    "periods",
		Aliases: []string{"p"},
		Help:    "SH_US ICG_US",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("two values expected: SH_US ICG_US"))
				return
			}
			sh, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			icg, err := strconv.Atoi(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			if err := ClientFrom(c).SetPeriods(sh, icg); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}

	// RawCmd sends a verbatim command line.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "COMMAND [ARGS...]",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("command expected"))
				return
			}
			resp, err := ClientFrom(c).Raw(strings.Join(c.Args, " "))
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(resp)
		},
	}
)
