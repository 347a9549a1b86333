package host

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckPeriods(t *testing.T) {
	for _, c := range []struct {
		name    string
		sh, icg int
		ok      bool
	}{
		{"reference timing", 100, 10000, true},
		{"tightest legal icg", 20, 7620, true},
		{"longest legal periods", 100, 32000, true},
		{"zero sh", 0, 10000, false},
		{"negative sh", -5, 10000, false},
		{"icg at read-out bound", 100, 7600, false},
		{"icg not a multiple", 300, 10000, false},
		{"icg beyond range", 100, 40000, false},
		{"both beyond range", 33000, 33000, false},
	} {
		t.Run(c.name, func(t *testing.T) {
			err := CheckPeriods(c.sh, c.icg)
			if c.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrBadPeriods)
			}
		})
	}
}
