package firmware

import "encoding/binary"

// PeriodMsgLen is the wire size of one period message.
const PeriodMsgLen = 4

// PackPeriods encodes the SH and ICG periods (microseconds) for the
// clock generator: two big-endian uint16 halves, SH first.
func PackPeriods(sh, icg uint16) (msg [PeriodMsgLen]byte) {
	binary.BigEndian.PutUint16(msg[0:2], sh)
	binary.BigEndian.PutUint16(msg[2:4], icg)
	return
}
