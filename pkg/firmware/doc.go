// Package firmware implements the TCD1304 reader's command engine.
package firmware

// The serial protocol is newline-terminated ASCII in both directions.
// Commands are one letter with optional comma-or-space separated
// arguments:
//
//	v         report the version string
//	L 0|1     set the activity LED and pin it there (1) or release it (0)
//	a         one immediate ADC reading
//	b         capture one frame after the next gate edge, report stats
//	r         report the frame, one decimal count per line
//	q         report the frame packed, 20 counts per line
//	p SH ICG  send clock periods (microseconds) to the generator
//
// A response that could not honor its command carries the word
// "error"; the response to an unknown command echoes the offending
// code. There is no framing and no checksum: the link is a short
// point-to-point serial cable with a single cooperative host.
