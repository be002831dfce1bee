package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		done <- job
		return nil
	}, QueueConfig{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "invite", Payload: "x"}))

	select {
	case job := <-done:
		assert.NotEmpty(t, job.ID)
		assert.Equal(t, "invite", job.Type)
		assert.False(t, job.Enqueued.IsZero())
	case <-time.After(time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetriesThenDeadLetters(t *testing.T) {
	var calls int32
	dead := make(chan Job, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("smtp down")
	}, QueueConfig{
		Workers:    1,
		MaxRetries: 2,
		RetryDelay: 5 * time.Millisecond,
		DeadLetter: func(job Job, err error) { dead <- job },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "invite"}))

	select {
	case job := <-dead:
		assert.Equal(t, 3, job.Attempt)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	case <-time.After(2 * time.Second):
		t.Fatal("job never dead-lettered")
	}
}

func TestQueueRejectsWhenStopped(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	err := q.Enqueue(Job{})
	assert.ErrorIs(t, err, ErrQueueClosed)

	q.Start(context.Background())
	q.Stop()
	assert.ErrorIs(t, q.Enqueue(Job{}), ErrQueueClosed)
}

func TestQueuePermanentErrorSkipsRetries(t *testing.T) {
	var calls int32
	dead := make(chan error, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return Permanent(errors.New("bad recipient"))
	}, QueueConfig{
		Workers:    1,
		MaxRetries: 5,
		RetryDelay: 5 * time.Millisecond,
		DeadLetter: func(job Job, err error) { dead <- err },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "invite"}))

	select {
	case err := <-dead:
		assert.True(t, IsPermanent(err))
		assert.EqualError(t, err, "bad recipient")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	case <-time.After(time.Second):
		t.Fatal("job never dead-lettered")
	}
	assert.Nil(t, Permanent(nil))
}

func TestQueueBackoffGrowsLinearly(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{RetryDelay: 10 * time.Millisecond})
	assert.Equal(t, 10*time.Millisecond, q.backoff(0))
	assert.Equal(t, 30*time.Millisecond, q.backoff(3))
}
