// Package hal defines the peripheral surface the reader firmware drives.
package hal

// Sync senses the sensor's integration clear gate (ICG) line. Both
// waits return immediately when the line already reads the requested
// level, and otherwise block without bound: only hardware activity
// completes them.
type Sync interface {
	// WaitLow returns once the line reads low.
	WaitLow()
	// WaitHigh returns once the line reads high.
	WaitHigh()
}

// ADC drives the analog sampling peripheral.
type ADC interface {
	// ReadOnce performs one immediate conversion.
	ReadOnce() uint16
	// Start begins free-running conversion into the peripheral queue.
	Start()
	// Read blocks for the next queued conversion.
	Read() uint16
	// Stop halts conversion and discards queued but unread values.
	Stop()
}

// Indicator is the activity LED.
type Indicator interface {
	Set(on bool)
}

// PeriodBus carries timing messages to the companion clock generator.
// Write reports the number of bytes acknowledged by the peer; a full
// transfer acknowledges the whole message.
type PeriodBus interface {
	Write(msg []byte) (int, error)
}

// Board bundles the peripherals one reader session drives.
type Board struct {
	Sync      Sync
	ADC       ADC
	Indicator Indicator
	Periods   PeriodBus
}
