package firmware

// LineCap is the command line capacity, terminator included.
const LineCap = 80

// LineReader accumulates command lines from raw character input.
// Characters arrive one at a time and are not echoed. Backspace
// removes the last retained character, carriage returns are dropped,
// and characters beyond the capacity are dropped silently while the
// line keeps accumulating. A newline completes the line.
type LineReader struct {
	buf [LineCap]byte
	n   int
}

// Feed consumes one character. When c completes a line, Feed returns
// the line (possibly empty) and true. The returned slice is only
// valid until the next Feed.
func (r *LineReader) Feed(c byte) ([]byte, bool) {
	switch c {
	case '\n':
		line := r.buf[:r.n]
		r.n = 0
		return line, true
	case '\b':
		if r.n > 0 {
			r.n--
		}
	case '\r':
		// dropped
	default:
		if r.n < LineCap-1 {
			r.buf[r.n] = c
			r.n++
		}
	}
	return nil, false
}
