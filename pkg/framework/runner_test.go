package framework

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())

	errs.Add(nil, errors.New("first"), nil, errors.New("second"))
	err := errs.Aggregate()
	require.Error(t, err)
	require.Equal(t, "Multiple errors:\nfirst\nsecond", err.Error())
}

func TestRunWithContext(t *testing.T) {
	boom := errors.New("boom")
	err := RunWithContext(context.Background(), func() error { return boom })
	require.Equal(t, boom, err)
}

func TestRunWithContextCancelUnblocks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stop := make(chan struct{})
	err := RunWithContextCancel(ctx, func() { close(stop) }, func() error {
		<-stop
		return errors.New("interrupted")
	})
	require.Equal(t, context.Canceled, err)
}

type recordedCloser struct {
	once   sync.Once
	ch     chan struct{}
	closes int
}

func newRecordedCloser() *recordedCloser {
	return &recordedCloser{ch: make(chan struct{})}
}

func (c *recordedCloser) Close() error {
	c.closes++
	c.once.Do(func() { close(c.ch) })
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	t.Run("closed after exit", func(t *testing.T) {
		c := newRecordedCloser()
		err := RunWithContextCloser(context.Background(), c, func() error { return nil })
		require.NoError(t, err)
		require.Equal(t, 1, c.closes)
	})
	t.Run("closed on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := newRecordedCloser()
		err := RunWithContextCloser(ctx, c, func() error {
			<-c.ch
			return errors.New("interrupted")
		})
		require.Equal(t, context.Canceled, err)
		require.Equal(t, 1, c.closes)
	})
}

func TestRunnerAggregatesErrors(t *testing.T) {
	boom := errors.New("boom")
	err := NewRunner().Go(
		RunnableFunc(func(context.Context) error { return nil }),
		NamedRun("failing", RunnableFunc(func(context.Context) error { return boom })),
	).Wait()
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}

func TestRunnerIgnoresCancellation(t *testing.T) {
	err := NewRunner().Go(
		RunnableFunc(func(context.Context) error { return context.Canceled }),
	).Wait()
	require.NoError(t, err)
}

func TestNamedRun(t *testing.T) {
	r := NamedRun("gate", RunnableFunc(func(context.Context) error { return nil }))
	named, ok := r.(Named)
	require.True(t, ok)
	require.Equal(t, "gate", named.Name())
}
