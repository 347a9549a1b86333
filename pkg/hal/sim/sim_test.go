package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/ccd"
)

func TestSyncLevelFollowsPhase(t *testing.T) {
	s := &Sync{Period: 20 * time.Millisecond, Pulse: 5 * time.Millisecond}

	// Pin the epoch so the phase is known without sleeping.
	s.epoch = time.Now().Add(-2500 * time.Microsecond) // mid pulse
	require.False(t, s.Level())

	s.epoch = time.Now().Add(-12500 * time.Microsecond) // mid high window
	require.True(t, s.Level())
}

func TestSyncWaitsComplete(t *testing.T) {
	s := NewSync(10*time.Millisecond, 2*time.Millisecond)
	start := time.Now()
	s.WaitLow()
	s.WaitHigh()
	s.WaitLow()
	s.WaitHigh()
	// Two full edge hunts never need more than two cycles plus
	// scheduling slack.
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestADCDeterministicFrames(t *testing.T) {
	readFrame := func(a *ADC) []uint16 {
		a.Start()
		frame := make([]uint16, ccd.FrameLen)
		for i := range frame {
			frame[i] = a.Read()
		}
		a.Stop()
		return frame
	}

	first := readFrame(NewADC(7))
	second := readFrame(NewADC(7))
	require.Equal(t, first, second)

	for i, v := range first {
		require.LessOrEqualf(t, v, uint16(ccd.SampleMask), "pixel[%d]", i)
	}

	// The absorption lines pull well below the dark baseline.
	a := NewADC(7)
	require.Less(t, first[950], a.DarkLevel-700)
	require.Less(t, first[2400], a.DarkLevel-1000)

	// Dark corners sit near the baseline.
	require.Greater(t, first[0], a.DarkLevel-100)
	require.Greater(t, first[ccd.FrameLen-1], a.DarkLevel-100)
}

func TestADCReadOnceHoldsPosition(t *testing.T) {
	a := NewADC(1)
	a.Noise = 0
	a.Start()
	first := a.Read()

	once := a.ReadOnce()
	next := a.Read()
	require.Equal(t, next, once)
	require.LessOrEqual(t, first, uint16(ccd.SampleMask))
}

func TestIndicatorRecordsTransitions(t *testing.T) {
	var l Indicator
	l.Set(true)
	l.Set(true)
	l.Set(false)
	require.False(t, l.Lit())
	require.Equal(t, 2, l.Transitions())
}

func TestPeriodBusFaults(t *testing.T) {
	var b PeriodBus
	n, err := b.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{1, 2, 3, 4}, b.Last())

	b.Short = true
	n, err = b.Write([]byte{5, 6, 7, 8})
	require.NoError(t, err)
	require.Equal(t, 3, n)

	b.Short = false
	b.Err = errors.New("nack")
	_, err = b.Write([]byte{9})
	require.Error(t, err)

	require.Len(t, b.Messages(), 3)
}
