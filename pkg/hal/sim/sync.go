package sim

import "time"

// Sync models the ICG line of the clock generator. Each cycle of
// Period starts with Pulse spent low, the remainder high, phase
// locked to the wall clock. Waits sleep until the phase enters the
// requested window, so the line always transitions and a capture can
// never stall on it. Period must be positive and Pulse shorter than
// Period.
type Sync struct {
	Period time.Duration
	Pulse  time.Duration

	epoch time.Time
}

// NewSync creates a gate line with the given cycle timing.
func NewSync(period, pulse time.Duration) *Sync {
	return &Sync{Period: period, Pulse: pulse, epoch: time.Now()}
}

func (s *Sync) phase() time.Duration {
	return time.Since(s.epoch) % s.Period
}

// Level reports the instantaneous line level, true for high.
func (s *Sync) Level() bool {
	return s.phase() >= s.Pulse
}

// WaitLow returns once the line reads low.
func (s *Sync) WaitLow() {
	if p := s.phase(); p >= s.Pulse {
		time.Sleep(s.Period - p)
	}
}

// WaitHigh returns once the line reads high.
func (s *Sync) WaitHigh() {
	if p := s.phase(); p < s.Pulse {
		time.Sleep(s.Pulse - p)
	}
}
