package queue

import (
	"context"
	"domainkeeper/internal/metrics"
	"domainkeeper/logger"
	"fmt"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"time"
)

type (
	// Job is a unit of background work
	Job interface {
		Name() string
		Handle(ctx context.Context) error
	}

	// Retryable jobs are attempted up to Tries times with Backoff between attempts
	Retryable interface {
		Tries() int
		Backoff() time.Duration
	}

	Dispatcher interface {
		Dispatch(job Job) error
		DispatchAfter(job Job, delay time.Duration) error
	}

	Queue struct {
		scheduler gocron.Scheduler
		metrics   *metrics.Metrics
		ctx       context.Context
		cancel    context.CancelFunc
	}
)

func New(concurrency uint, m *metrics.Metrics) (*Queue, error) {
	if concurrency == 0 {
		concurrency = 1
	}
	scheduler, err := gocron.NewScheduler(
		gocron.WithLimitConcurrentJobs(concurrency, gocron.LimitModeWait))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		scheduler: scheduler,
		metrics:   m,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

func (q *Queue) Start() {
	q.scheduler.Start()
}

// Shutdown cancels running jobs and waits for them to return
func (q *Queue) Shutdown() error {
	q.cancel()
	return q.scheduler.Shutdown()
}

func (q *Queue) Dispatch(job Job) error {
	return q.schedule(job, 1, 0)
}

func (q *Queue) DispatchAfter(job Job, delay time.Duration) error {
	return q.schedule(job, 1, delay)
}

// ScheduleCron runs job on every tick of a standard five field cron expression
func (q *Queue) ScheduleCron(expression string, job Job) error {
	if err := ValidateCron(expression); err != nil {
		return err
	}

	j, err := q.scheduler.NewJob(
		gocron.CronJob(expression, false),
		gocron.NewTask(func() {
			q.run(job, 1)
		}),
		gocron.WithName(job.Name()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return err
	}

	logger.Info("periodic job scheduled",
		zap.String("job", j.Name()),
		zap.String("expression", expression))
	return nil
}

func ValidateCron(expression string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(expression); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

func (q *Queue) schedule(job Job, attempt int, delay time.Duration) error {
	definition := gocron.OneTimeJob(gocron.OneTimeJobStartImmediately())
	if delay > 0 {
		definition = gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(delay)))
	}

	_, err := q.scheduler.NewJob(
		definition,
		gocron.NewTask(func() {
			q.run(job, attempt)
		}),
		gocron.WithName(job.Name()),
		gocron.WithIdentifier(uuid.New()))
	if err != nil {
		return fmt.Errorf("failed to queue %s: %w", job.Name(), err)
	}
	return nil
}

func (q *Queue) run(job Job, attempt int) {
	err := handle(q.ctx, job)
	if err == nil {
		q.metrics.ObserveJob(job.Name(), metrics.JobResultSucceeded)
		return
	}

	tries, backoff := RetryPolicy(job)
	if attempt < tries && q.ctx.Err() == nil {
		logger.Warn("job failed, retrying",
			zap.String("job", job.Name()),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		q.metrics.ObserveJob(job.Name(), metrics.JobResultRetried)
		if err := q.schedule(job, attempt+1, backoff); err == nil {
			return
		}
	}

	q.metrics.ObserveJob(job.Name(), metrics.JobResultExhausted)
	Report(q.metrics, job.Name(), err,
		zap.Int("attempts", attempt))
}

// RetryPolicy returns the tries and backoff of job, one try without backoff when it
// does not declare any
func RetryPolicy(job Job) (int, time.Duration) {
	r, ok := job.(Retryable)
	if !ok || r.Tries() < 1 {
		return 1, 0
	}
	return r.Tries(), r.Backoff()
}

// Report sends err to the operator error channel
func Report(m *metrics.Metrics, source string, err error, fields ...zap.Field) {
	m.IncReportedError(source)
	logger.Error(source+" failed",
		append(fields, zap.String("source", source), zap.Error(err))...)
}

func handle(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.Handle(ctx)
}
