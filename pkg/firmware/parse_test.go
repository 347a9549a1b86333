package firmware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtoi(t *testing.T) {
	testCases := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"5", 5},
		{"3800", 3800},
		{"007", 7},
		{"+7", 7},
		{"-1", -1},
		{"12ab", 12},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{"--5", 0},
		{"\t42", 42},
		{"70000", 70000},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.want, atoi(tc.in))
		})
	}
}

func TestTokens(t *testing.T) {
	require.Empty(t, tokens(nil))
	require.Empty(t, tokens([]byte(" ,, ")))
	require.Equal(t, []string{"300", "8400"}, tokens([]byte(" 300 8400")))
	require.Equal(t, []string{"300", "8400"}, tokens([]byte("300,8400")))
	require.Equal(t, []string{"1"}, tokens([]byte(",1")))
	require.Equal(t, []string{"1", "2", "3"}, tokens([]byte("1  2,,3")))
}
