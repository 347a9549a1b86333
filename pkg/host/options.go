package host

import "time"

type options struct {
	Baud    int
	Timeout time.Duration
}

func defaultOptions() options {
	return options{Baud: 115200, Timeout: 2 * time.Second}
}

// Option adjusts how a Client is opened.
type Option func(*options)

// WithBaud overrides the serial line rate.
func WithBaud(baud int) Option {
	return func(o *options) { o.Baud = baud }
}

// WithTimeout overrides the per-read timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.Timeout = d }
}
