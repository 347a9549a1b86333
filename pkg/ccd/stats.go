package ccd

import "math"

// Mean returns the arithmetic mean of the samples.
func Mean(samples []uint16) float64 {
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	return sum / float64(len(samples))
}

// Stddev returns the sample standard deviation about a previously
// computed mean, with Bessel's correction. At least two samples are
// assumed; frames always have FrameLen.
func Stddev(samples []uint16, mean float64) float64 {
	var sum float64
	for _, s := range samples {
		diff := float64(s) - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(samples)-1))
}
