package transfer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGuardSerializesSameKind(t *testing.T) {
	g := NewGuard()

	mu := sync.Mutex{}
	events := []string{}
	record := func(ev string) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}

	release := make(chan struct{})
	g.Launch(KindGet, func() error {
		<-release
		record("first done")
		return nil
	})

	require.True(t, g.Busy(KindGet))
	require.False(t, g.Busy(KindPut))

	secondRan := make(chan struct{})
	launched := make(chan struct{})
	go func() {
		g.Launch(KindGet, func() error {
			record("second started")
			close(secondRan)
			return nil
		})
		close(launched)
	}()

	select {
	case <-secondRan:
		t.Fatalf("second worker ran while the first was still busy")
	case <-launched:
		t.Fatalf("launch returned while the first worker was still busy")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-launched
	<-secondRan

	require.NoError(t, g.Drain())
	require.Equal(t, []string{"first done", "second started"}, events)
	require.False(t, g.Busy(KindGet))
}

func TestGuardKindsOverlap(t *testing.T) {
	g := NewGuard()

	release := make(chan struct{})
	g.Launch(KindGet, func() error {
		<-release
		return nil
	})

	putRan := make(chan struct{})
	g.Launch(KindPut, func() error {
		close(putRan)
		return nil
	})

	select {
	case <-putRan:
	case <-time.After(time.Second):
		t.Fatalf("put worker was blocked by a running get worker")
	}

	require.True(t, g.Busy(KindGet))
	close(release)
	require.NoError(t, g.Drain())
}

func TestGuardDrainError(t *testing.T) {
	g := NewGuard()

	errBoom := errors.New("boom")
	g.Launch(KindPut, func() error {
		time.Sleep(10 * time.Millisecond)
		return errBoom
	})

	require.Equal(t, errBoom, g.Drain())

	// The error does not stick after a drain.
	g.Launch(KindPut, func() error { return nil })
	require.NoError(t, g.Drain())
}

func TestGuardDrainIdle(t *testing.T) {
	require.NoError(t, NewGuard().Drain())
}
