package firmware

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	dev, peer := net.Pipe()
	b := newTestBoard()
	sess := NewSession(dev, New(b.asBoard()))

	done := make(chan error, 1)
	go func() { done <- sess.Run(context.Background()) }()

	br := bufio.NewReader(peer)
	send := func(s string) {
		_, err := peer.Write([]byte(s))
		require.NoError(t, err)
	}
	recv := func() string {
		line, err := br.ReadString('\n')
		require.NoError(t, err)
		return line
	}

	send("v\n")
	require.Equal(t, "v "+Version+"\n", recv())

	// Empty and whitespace-only lines produce no response; the next
	// command's response follows immediately.
	send("\n")
	send("\r\n")
	send("a\n")
	require.Equal(t, "a 2048\n", recv())

	// Backspace editing applies before dispatch.
	send("aX\b\n")
	require.Equal(t, "a 2048\n", recv())

	send("L 1\n")
	require.Equal(t, "L 1\n", recv())

	require.NoError(t, peer.Close())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("session did not stop on close")
	}
}

func TestSessionEndsWhenConnClosedUnderIt(t *testing.T) {
	dev, peer := net.Pipe()
	defer peer.Close()
	sess := NewSession(dev, New(newTestBoard().asBoard()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	// Shutdown order used by the daemon: cancel, then close the
	// stream out from under the blocked read.
	cancel()
	require.NoError(t, dev.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("session did not stop on cancel+close")
	}
}
