package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/pajacobs-ghub/pico2-TCD1304-reader/pkg/ccd"
)

// Feature is one absorption line in the simulated scene. Depth counts
// are subtracted from the dark level at Center, falling off as a
// Gaussian with Width in pixels.
type Feature struct {
	Center float64
	Width  float64
	Depth  float64
}

// ADC synthesizes the sensor's analog chain. The TCD1304 output is
// inverted: unlit pixels read near DarkLevel and illuminated pixels
// read lower. Frames restart at pixel zero on Start, mirroring the
// read-out that follows a gate edge. Identical seeds and settings
// produce identical frames.
type ADC struct {
	DarkLevel  uint16
	Noise      uint16 // peak to peak noise counts, zero for a clean trace
	Features   []Feature
	SampleTime time.Duration // conversion time per pixel, zero for instant
	Seed       int64

	rng *rand.Rand
	pos int
}

// NewADC creates a generator with the default scene: a dark baseline
// with two absorption lines and a little noise.
func NewADC(seed int64) *ADC {
	return &ADC{
		DarkLevel: 3300,
		Noise:     12,
		Features: []Feature{
			{Center: 950, Width: 60, Depth: 1400},
			{Center: 2400, Width: 25, Depth: 2100},
		},
		Seed: seed,
	}
}

// ReadOnce performs one conversion at the current pixel without
// advancing the frame.
func (a *ADC) ReadOnce() uint16 {
	return a.value(a.pos)
}

// Start rewinds to pixel zero.
func (a *ADC) Start() {
	a.pos = 0
}

// Read converts the next pixel.
func (a *ADC) Read() uint16 {
	if a.SampleTime > 0 {
		time.Sleep(a.SampleTime)
	}
	v := a.value(a.pos)
	a.pos++
	return v
}

// Stop halts conversion. Nothing is queued ahead, so there is nothing
// to discard.
func (a *ADC) Stop() {}

func (a *ADC) value(pixel int) uint16 {
	v := float64(a.DarkLevel)
	x := float64(pixel % ccd.FrameLen)
	for _, f := range a.Features {
		d := (x - f.Center) / f.Width
		v -= f.Depth * math.Exp(-d*d/2)
	}
	if a.Noise > 0 {
		if a.rng == nil {
			a.rng = rand.New(rand.NewSource(a.Seed))
		}
		v += float64(a.rng.Intn(int(a.Noise)+1)) - float64(a.Noise)/2
	}
	if v < 0 {
		v = 0
	}
	if v > ccd.SampleMask {
		v = ccd.SampleMask
	}
	return uint16(v)
}
