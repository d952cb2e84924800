package queue

import (
	"context"
	"domainkeeper/internal/metrics"
	"errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync/atomic"
	"testing"
	"time"
)

type countingJob struct {
	calls   atomic.Int32
	failFor int32
	tries   int
	panics  bool
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Handle(ctx context.Context) error {
	n := j.calls.Add(1)
	if j.panics {
		panic("boom")
	}
	if n <= j.failFor {
		return errors.New("not yet")
	}
	return nil
}

func (j *countingJob) Tries() int             { return j.tries }
func (j *countingJob) Backoff() time.Duration { return 10 * time.Millisecond }

type plainJob struct {
	calls atomic.Int32
}

func (j *plainJob) Name() string { return "plain" }

func (j *plainJob) Handle(ctx context.Context) error {
	j.calls.Add(1)
	return errors.New("always")
}

func newQueue(t *testing.T) (*Queue, *metrics.Metrics) {
	m := metrics.New(nil)
	q, err := New(4, m)
	require.NoError(t, err)
	q.Start()
	t.Cleanup(func() {
		_ = q.Shutdown()
	})
	return q, m
}

func TestQueue_Dispatch(t *testing.T) {
	q, m := newQueue(t)
	job := &countingJob{tries: 1}

	require.NoError(t, q.Dispatch(job))

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.QueueJobs.WithLabelValues("counting", metrics.JobResultSucceeded)) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), job.calls.Load())
}

func TestQueue_RetriesUntilSuccess(t *testing.T) {
	q, m := newQueue(t)
	job := &countingJob{tries: 3, failFor: 2}

	require.NoError(t, q.Dispatch(job))

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.QueueJobs.WithLabelValues("counting", metrics.JobResultSucceeded)) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(3), job.calls.Load())
	assert.Equal(t, float64(2), testutil.ToFloat64(m.QueueJobs.WithLabelValues("counting", metrics.JobResultRetried)))
}

func TestQueue_ReportsExhaustedJobs(t *testing.T) {
	q, m := newQueue(t)
	job := &countingJob{tries: 3, failFor: 10}

	require.NoError(t, q.Dispatch(job))

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.QueueJobs.WithLabelValues("counting", metrics.JobResultExhausted)) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(3), job.calls.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReportedErrors.WithLabelValues("counting")))
}

func TestQueue_PanicIsAFailure(t *testing.T) {
	q, m := newQueue(t)
	job := &countingJob{tries: 1, panics: true}

	require.NoError(t, q.Dispatch(job))

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.QueueJobs.WithLabelValues("counting", metrics.JobResultExhausted)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestQueue_DispatchAfter(t *testing.T) {
	q, _ := newQueue(t)
	job := &countingJob{tries: 1}

	start := time.Now()
	require.NoError(t, q.DispatchAfter(job, 200*time.Millisecond))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), job.calls.Load())
	assert.Eventually(t, func() bool {
		return job.calls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestRetryPolicy(t *testing.T) {
	tries, backoff := RetryPolicy(&plainJob{})
	assert.Equal(t, 1, tries)
	assert.Zero(t, backoff)

	tries, backoff = RetryPolicy(&countingJob{tries: 3})
	assert.Equal(t, 3, tries)
	assert.Equal(t, 10*time.Millisecond, backoff)
}

func TestScheduleCron(t *testing.T) {
	q, _ := newQueue(t)

	assert.Error(t, q.ScheduleCron("not a cron", &plainJob{}))
	assert.Error(t, q.ScheduleCron("* * * * * *", &plainJob{}))
	assert.NoError(t, q.ScheduleCron("0 * * * *", &plainJob{}))
}
