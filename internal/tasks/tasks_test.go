package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSubmitRunsJob(t *testing.T) {
	p := New(2, 8, testLogger())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		p.Submit("count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	p.Stop()

	assert.Equal(t, int32(5), ran.Load())
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	p := New(1, 8, testLogger())

	done := make(chan struct{})
	p.Submit("boom", func(ctx context.Context) error {
		panic("boom")
	})
	p.Submit("after", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
	p.Stop()
}

func TestFullQueueDropsJob(t *testing.T) {
	p := New(1, 1, testLogger())
	block := make(chan struct{})
	started := make(chan struct{})

	p.Submit("blocker", func(ctx context.Context) error {
		close(started)
		<-block
		return nil
	})
	<-started
	// fill the queue, then one more that has to be dropped
	p.Submit("queued", func(ctx context.Context) error { return nil })

	var dropped atomic.Bool
	dropped.Store(true)
	p.Submit("dropped", func(ctx context.Context) error {
		dropped.Store(false)
		return nil
	})

	close(block)
	p.Stop()
	assert.True(t, dropped.Load())
}

func TestJobErrorIsContained(t *testing.T) {
	p := New(1, 1, testLogger())
	p.Submit("fails", func(ctx context.Context) error {
		return fmt.Errorf("nope")
	})
	p.Stop()
}
