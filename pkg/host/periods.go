package host

import "fmt"

// Clock generator limits, in microseconds. The ICG period must cover
// the frame read-out before the next gate edge, and both periods ride
// in 16-bit registers on the peer.
const (
	MinICGPeriodUS = 7600
	MaxPeriodUS    = 32000
)

// CheckPeriods validates SH and ICG periods before they go to the
// device: ICG longer than the frame read-out, an exact multiple of a
// non-zero SH, and both within register range.
func CheckPeriods(sh, icg int) error {
	if sh <= 0 {
		return fmt.Errorf("%w: SH %dus must be positive", ErrBadPeriods, sh)
	}
	if icg <= MinICGPeriodUS {
		return fmt.Errorf("%w: ICG %dus must exceed the %dus frame read-out", ErrBadPeriods, icg, MinICGPeriodUS)
	}
	if sh > MaxPeriodUS || icg > MaxPeriodUS {
		return fmt.Errorf("%w: SH %dus and ICG %dus must be at most %dus", ErrBadPeriods, sh, icg, MaxPeriodUS)
	}
	if icg%sh != 0 {
		return fmt.Errorf("%w: ICG %dus is not a multiple of SH %dus", ErrBadPeriods, icg, sh)
	}
	return nil
}
