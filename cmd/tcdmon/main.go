package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/ccd"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/console"
	fx "github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/framework"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/host"
	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/telemetry"
)

var (
	portName string
	addr     string
	baud     int
	timeout  time.Duration

	framePacked bool
	frameOut    string

	watchInterval time.Duration
	watchCount    int
	watchBroker   string
	watchTopic    string
)

// rootCmd holds the connection flags shared by every subcommand.
var rootCmd = &cobra.Command{
	Use:   "tcdmon",
	Short: "Talk to a TCD1304 linear-image-sensor reader",
	Long: `tcdmon speaks the reader's line protocol over a local serial
device (--port) or a TCP bridge (--addr).`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&portName, "port", "p", "", "serial device of the reader")
	pf.StringVarP(&addr, "addr", "a", "", "TCP address of a reader bridge")
	pf.IntVarP(&baud, "baud", "b", 115200, "serial baud rate")
	pf.DurationVar(&timeout, "timeout", 2*time.Second, "response timeout")

	frameCmd.Flags().BoolVar(&framePacked, "packed", false, "fetch via the packed report")
	frameCmd.Flags().StringVarP(&frameOut, "out", "o", "", "write the samples to this file")

	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "time between captures")
	watchCmd.Flags().IntVar(&watchCount, "count", 0, "stop after this many captures, 0 to run until interrupted")
	watchCmd.Flags().StringVar(&watchBroker, "mqtt", "", "also publish summaries to this MQTT broker URL")
	watchCmd.Flags().StringVar(&watchTopic, "topic", "tcd1304", "topic prefix for published summaries")

	rootCmd.AddCommand(portsCmd, versionCmd, ledCmd, sampleCmd, captureCmd,
		frameCmd, periodsCmd, watchCmd, rawCmd, shellCmd)
}

func openClient() (*host.Client, error) {
	opts := []host.Option{host.WithBaud(baud), host.WithTimeout(timeout)}
	if addr != "" {
		return host.Dial(addr, opts...)
	}
	if portName != "" {
		return host.Open(portName, opts...)
	}
	return nil, fmt.Errorf("either --port or --addr is required")
}

// withClient opens the connection, runs fn over it and closes it
// again.
func withClient(fn func(*host.Client) error) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports on this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := host.Ports()
		if err != nil {
			return err
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Report the firmware revision",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *host.Client) error {
			v, err := c.Version()
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		})
	},
}

var ledCmd = &cobra.Command{
	Use:   "led 0|1",
	Short: "Pin the on-board LED on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("led takes 0 or 1: %w", err)
		}
		return withClient(func(c *host.Client) error {
			return c.SetLED(v&1 == 1)
		})
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Read one instantaneous ADC conversion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *host.Client) error {
			v, err := c.Sample()
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		})
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Run one synchronized capture and report its summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *host.Client) error {
			s, err := c.Capture()
			if err != nil {
				return err
			}
			fmt.Printf("mean %.6g stddev %.6g elapsed %dus\n", s.Mean, s.Stddev, s.ElapsedUS)
			return nil
		})
	},
}

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Capture a frame and print its samples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *host.Client) error {
			if _, err := c.Capture(); err != nil {
				return err
			}
			fetch := c.Frame
			if framePacked {
				fetch = c.FramePacked
			}
			samples, err := fetch()
			if err != nil {
				return err
			}
			if frameOut == "" {
				return ccd.WriteDecimal(os.Stdout, samples)
			}
			f, err := os.Create(frameOut)
			if err != nil {
				return err
			}
			if err := ccd.WriteDecimal(f, samples); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("%d samples written to %s\n", len(samples), frameOut)
			return nil
		})
	},
}

var periodsCmd = &cobra.Command{
	Use:   "periods SH_US ICG_US",
	Short: "Reprogram the exposure and read-out clock periods",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sh, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("SH_US: %w", err)
		}
		icg, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("ICG_US: %w", err)
		}
		return withClient(func(c *host.Client) error {
			if err := c.SetPeriods(sh, icg); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Capture repeatedly and report each summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *host.Client) error {
			var pub *telemetry.Publisher
			if watchBroker != "" {
				var err error
				if pub, err = telemetry.New(watchBroker, watchTopic); err != nil {
					return err
				}
				if err := pub.Connect(); err != nil {
					return err
				}
				defer pub.Close()
			}
			return fx.NewRunner().
				HandleSignals().
				Go(fx.NamedRun("watch", fx.RunnableFunc(func(ctx context.Context) error {
					return watch(ctx, c, pub)
				}))).
				Wait()
		})
	},
}

func watch(ctx context.Context, c *host.Client, pub *telemetry.Publisher) error {
	tick := time.NewTicker(watchInterval)
	defer tick.Stop()
	for n := 0; watchCount == 0 || n < watchCount; n++ {
		s, err := c.Capture()
		if err != nil {
			return err
		}
		fmt.Printf("%s mean %.6g stddev %.6g elapsed %dus\n",
			s.At.Format(time.RFC3339), s.Mean, s.Stddev, s.ElapsedUS)
		if pub != nil {
			if err := pub.PubJSON("capture", s); err != nil {
				fmt.Fprintf(os.Stderr, "publish: %v\n", err)
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
	return nil
}

var rawCmd = &cobra.Command{
	Use:   "raw COMMAND [ARGS...]",
	Short: "Send a verbatim command line and print the response",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *host.Client) error {
			resp, err := c.Raw(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(resp)
			return nil
		})
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell [COMMAND [ARGS...]]",
	Short: "Interactive prompt speaking the reader protocol",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *host.Client) error {
			return console.New(c).Run(args...)
		})
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
