package firmware

import (
	"bufio"
	"context"
	"io"

	"github.com/golang/glog"
)

// Session couples an interpreter to one byte stream. It owns the
// perpetual command loop: block for a complete line, run it to
// completion, flush the response, repeat. An in-flight command cannot
// be cancelled; closing the stream is the only way to end a blocked
// read, and the runner does exactly that on shutdown.
type Session struct {
	Conn   io.ReadWriter
	Interp *Interpreter

	reader LineReader
}

// NewSession creates a session serving interp over conn.
func NewSession(conn io.ReadWriter, interp *Interpreter) *Session {
	return &Session{Conn: conn, Interp: interp}
}

// Run serves the session until the stream ends. EOF, and any read
// error after ctx is cancelled, end the session cleanly; empty lines
// are consumed without any action.
func (s *Session) Run(ctx context.Context) error {
	w := bufio.NewWriter(s.Conn)
	buf := make([]byte, 1)
	for {
		n, err := s.Conn.Read(buf)
		if n > 0 {
			if line, ok := s.reader.Feed(buf[0]); ok && len(line) > 0 {
				glog.V(3).Infof("CMD %q", line)
				if err := s.Interp.Exec(line, w); err != nil {
					return err
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
		}
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}
