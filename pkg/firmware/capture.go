package firmware

import (
	"time"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/hal"
)

// Capture fills dst with one frame synchronized to the gate signal
// and returns the sampling time in microseconds. Sampling must start
// just after a rising edge of the gate: waiting for low first means
// the following high wait always observes a fresh edge, wherever in
// the cycle the command arrived. Neither wait is bounded; a gate that
// never transitions blocks the command forever.
func Capture(gate hal.Sync, adc hal.ADC, dst []uint16) int64 {
	gate.WaitLow()
	gate.WaitHigh()
	start := time.Now()
	adc.Start()
	for i := range dst {
		dst[i] = adc.Read()
	}
	adc.Stop()
	return time.Since(start).Microseconds()
}
