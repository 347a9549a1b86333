package sim

import "sync"

// PeriodBus records period messages and can inject transfer faults.
type PeriodBus struct {
	Err   error // returned by Write when set
	Short bool  // acknowledge one byte fewer than written

	mu   sync.Mutex
	msgs [][]byte
}

// Write implements hal.PeriodBus.
func (b *PeriodBus) Write(msg []byte) (int, error) {
	b.mu.Lock()
	b.msgs = append(b.msgs, append([]byte(nil), msg...))
	b.mu.Unlock()
	if b.Err != nil {
		return 0, b.Err
	}
	if b.Short {
		return len(msg) - 1, nil
	}
	return len(msg), nil
}

// Messages returns every message written so far.
func (b *PeriodBus) Messages() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.msgs...)
}

// Last returns the most recent message, or nil.
func (b *PeriodBus) Last() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.msgs) == 0 {
		return nil
	}
	return b.msgs[len(b.msgs)-1]
}
