package sim

import (
	"time"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/hal"
)

// Board bundles the simulated peripherals with their inspection
// handles.
type Board struct {
	Sync      *Sync
	ADC       *ADC
	Indicator *Indicator
	Periods   *PeriodBus
}

// NewBoard creates a board with the default scene and a 100 ms gate
// cycle.
func NewBoard(seed int64) *Board {
	return &Board{
		Sync:      NewSync(100*time.Millisecond, 5*time.Millisecond),
		ADC:       NewADC(seed),
		Indicator: &Indicator{},
		Periods:   &PeriodBus{},
	}
}

// HAL views the board through the peripheral interfaces.
func (b *Board) HAL() hal.Board {
	return hal.Board{Sync: b.Sync, ADC: b.ADC, Indicator: b.Indicator, Periods: b.Periods}
}
