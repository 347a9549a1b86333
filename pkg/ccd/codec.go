package ccd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	// FrameLen is the number of samples in one read-out frame.
	FrameLen = 3800
	// SamplesPerLine is the group size of the packed encoding.
	SamplesPerLine = 20
	// PackedLineLen is the character count of one packed line.
	PackedLineLen = 2 * SamplesPerLine
	// SampleMask keeps the significant bits of one sample.
	SampleMask = 0x0fff
)

// The packed encoding maps each 6-bit field through the standard
// base64 alphabet, high field first.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var symValue = buildSymValues()

func buildSymValues() (tbl [256]int8) {
	for i := range tbl {
		tbl[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		tbl[alphabet[i]] = int8(i)
	}
	return
}

// ErrOddPackedLine reports a packed line with an unpaired symbol.
var ErrOddPackedLine = errors.New("packed line has odd length")

// WriteDecimal emits each sample as an unsigned decimal integer,
// one per line, in frame order.
func WriteDecimal(w io.Writer, samples []uint16) error {
	buf := make([]byte, 0, 8)
	for _, s := range samples {
		buf = strconv.AppendUint(buf[:0], uint64(s), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// WritePacked emits the samples in groups of SamplesPerLine, two
// alphabet symbols per sample, one group per line. Samples beyond the
// last whole group are dropped; frames divide evenly by construction.
func WritePacked(w io.Writer, samples []uint16) error {
	var line [PackedLineLen + 1]byte
	line[PackedLineLen] = '\n'
	for len(samples) >= SamplesPerLine {
		for i, s := range samples[:SamplesPerLine] {
			v := s & SampleMask
			line[2*i] = alphabet[v>>6]
			line[2*i+1] = alphabet[v&0x3f]
		}
		if _, err := w.Write(line[:]); err != nil {
			return err
		}
		samples = samples[SamplesPerLine:]
	}
	return nil
}

// DecodePacked recovers the samples from one packed line.
func DecodePacked(line string) ([]uint16, error) {
	if len(line)%2 != 0 {
		return nil, ErrOddPackedLine
	}
	samples := make([]uint16, len(line)/2)
	for i := range samples {
		hi, lo := symValue[line[2*i]], symValue[line[2*i+1]]
		if hi < 0 {
			return nil, fmt.Errorf("bad packed symbol %q at %d", line[2*i], 2*i)
		}
		if lo < 0 {
			return nil, fmt.Errorf("bad packed symbol %q at %d", line[2*i+1], 2*i+1)
		}
		samples[i] = uint16(hi)<<6 | uint16(lo)
	}
	return samples, nil
}
