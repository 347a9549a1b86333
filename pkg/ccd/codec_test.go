package ccd

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameDividesIntoPackedLines(t *testing.T) {
	require.Zero(t, FrameLen%SamplesPerLine)
	require.Equal(t, 40, PackedLineLen)
}

func TestWriteDecimal(t *testing.T) {
	samples := []uint16{0, 1, 9, 10, 999, 4095, 65535}
	var out bytes.Buffer
	require.NoError(t, WriteDecimal(&out, samples))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, len(samples))
	for i, line := range lines {
		v, err := strconv.ParseUint(line, 10, 16)
		require.NoErrorf(t, err, "line[%d]", i)
		require.Equalf(t, samples[i], uint16(v), "line[%d]", i)
	}
}

func TestPackedKnownSymbols(t *testing.T) {
	testCases := []struct {
		sample uint16
		text   string
	}{
		{0, "AA"},
		{1, "AB"},
		{63, "A/"},
		{64, "BA"},
		{65, "BB"},
		{4095, "//"},
		{0x1000, "AA"}, // bit 12 is not significant
		{0xffff, "//"},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			group := make([]uint16, SamplesPerLine)
			group[0] = tc.sample
			var out bytes.Buffer
			require.NoError(t, WritePacked(&out, group))
			require.Equal(t, tc.text, out.String()[:2])

			decoded, err := DecodePacked(tc.text)
			require.NoError(t, err)
			require.Equal(t, []uint16{tc.sample & SampleMask}, decoded)
		})
	}
}

func TestPackedRoundTrip(t *testing.T) {
	samples := make([]uint16, FrameLen)
	for i := range samples {
		samples[i] = uint16(i * 7)
	}
	var out bytes.Buffer
	require.NoError(t, WritePacked(&out, samples))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, FrameLen/SamplesPerLine)

	var decoded []uint16
	for i, line := range lines {
		require.Lenf(t, line, PackedLineLen, "line[%d]", i)
		values, err := DecodePacked(line)
		require.NoErrorf(t, err, "line[%d]", i)
		decoded = append(decoded, values...)
	}
	require.Len(t, decoded, FrameLen)
	for i, v := range decoded {
		require.Equalf(t, samples[i]&SampleMask, v, "sample[%d]", i)
	}
}

func TestWritePackedDropsPartialGroup(t *testing.T) {
	samples := make([]uint16, SamplesPerLine+5)
	var out bytes.Buffer
	require.NoError(t, WritePacked(&out, samples))
	require.Equal(t, PackedLineLen+1, out.Len())
}

func TestDecodePackedErrors(t *testing.T) {
	_, err := DecodePacked("AAB")
	require.ErrorIs(t, err, ErrOddPackedLine)

	_, err = DecodePacked("A-")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad packed symbol")

	_, err = DecodePacked(" A")
	require.Error(t, err)
}
