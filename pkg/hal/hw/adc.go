package hw

import (
	"periph.io/x/conn/v3/spi"
)

// mcp3208 reads one single-ended channel of an MCP3208-class 12-bit
// converter. The chip converts on demand inside each transaction, so
// Start and Stop have nothing to do. A failed transfer reads as zero.
type mcp3208 struct {
	conn    spi.Conn
	channel int
}

func (a *mcp3208) ReadOnce() uint16 { return a.read() }
func (a *mcp3208) Start()           {}
func (a *mcp3208) Read() uint16     { return a.read() }
func (a *mcp3208) Stop()            {}

func (a *mcp3208) read() uint16 {
	// Start bit, single-ended, then the 3-bit channel straddling the
	// first two bytes.
	w := [3]byte{0x06 | byte(a.channel>>2), byte(a.channel&0x03) << 6, 0x00}
	var r [3]byte
	if err := a.conn.Tx(w[:], r[:]); err != nil {
		return 0
	}
	return uint16(r[1]&0x0f)<<8 | uint16(r[2])
}
