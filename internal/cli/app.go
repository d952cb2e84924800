package cli

import (
	"context"
	"domainkeeper/internal/availability"
	"domainkeeper/internal/config"
	"domainkeeper/internal/database"
	"domainkeeper/internal/domainrepo"
	"domainkeeper/internal/integrations/gitlab"
	"domainkeeper/internal/jobs"
	"domainkeeper/internal/lock"
	"domainkeeper/internal/metrics"
	"domainkeeper/internal/misc"
	"domainkeeper/internal/notify"
	"domainkeeper/internal/queue"
	"domainkeeper/internal/service"
	"domainkeeper/internal/storage"
	"domainkeeper/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"time"
)

// app is the wired object graph shared by the server and the one-shot commands
type app struct {
	cfg     config.Config
	db      *gorm.DB
	metrics *metrics.Metrics
	queue   *queue.Queue
	env     *jobs.Env
	domains service.DomainService

	closers []func() error
}

// newApp wires every component. With background set jobs go through the scheduler,
// otherwise they run inline on the calling goroutine.
func newApp(ctx context.Context, cfg config.Config, background bool) (*app, error) {
	a := &app{cfg: cfg, metrics: metrics.New(nil)}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	blobs, err := storage.Open(cfg.Storage)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	locker, closeLocker, err := lock.Open(cfg.RedisURL)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeLocker)

	var dispatcher queue.Dispatcher
	if background {
		a.queue, err = queue.New(cfg.QueueConcurrency, a.metrics)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		dispatcher = a.queue
	} else {
		dispatcher = &inlineDispatcher{ctx: ctx, metrics: a.metrics}
	}

	var mailer notify.Mailer
	if cfg.Mail.SMTPAddr != "" {
		mailer = notify.NewSMTPMailer(cfg.Mail.SMTPAddr, cfg.Mail.Username, cfg.Mail.Password)
	} else {
		logger.Warn("SMTP_ADDR is not set, mails are only logged")
		mailer = notify.NewLogMailer()
	}
	notifier := notify.NewNotifier(dispatcher, mailer, cfg.Mail.From, cfg.Mail.Recipients, cfg.Mail.CC)

	validator := availability.NewValidator(cfg.WhoisServer)
	repository := domainrepo.NewService(
		gitlab.NewClient(cfg.GitLab.URL, cfg.GitLab.Token, cfg.GitLab.Project),
		cfg.GitLab.Branch)

	deps := service.Dependencies{
		Domains:        database.NewDomainRepository(db),
		Configurations: database.NewConfigurationRepository(db),
		Verticals:      database.NewVerticalRepository(db),
		ChangeLogs:     database.NewChangeLogRepository(db),
		Validator:      validator,
		Storage:        blobs,
		Queue:          dispatcher,
		Notifier:       notifier,
	}
	a.env = &jobs.Env{
		Domains:        deps.Domains,
		Configurations: deps.Configurations,
		ChangeLogs:     deps.ChangeLogs,
		Repository:     repository,
		Locker:         locker,
		Queue:          dispatcher,
		Metrics:        a.metrics,
		Validator:      validator,
		Notifier:       notifier,
		Labels:         misc.DefaultLabelGenerator,
	}
	deps.Jobs = a.env
	a.domains = service.NewDomainService(deps)

	return a, nil
}

func openDatabase(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if cfg.ConfigurationsFile != "" {
		if err := database.SeedFromFile(ctx, db, cfg.ConfigurationsFile); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
	}
	return db, nil
}

func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// inlineDispatcher runs jobs immediately for one-shot commands. Delayed jobs are
// left to the periodic SSL recheck of the server.
type inlineDispatcher struct {
	ctx     context.Context
	metrics *metrics.Metrics
}

func (d *inlineDispatcher) Dispatch(job queue.Job) error {
	if err := job.Handle(d.ctx); err != nil {
		d.metrics.ObserveJob(job.Name(), metrics.JobResultExhausted)
		queue.Report(d.metrics, job.Name(), err)
		return err
	}
	d.metrics.ObserveJob(job.Name(), metrics.JobResultSucceeded)
	return nil
}

func (d *inlineDispatcher) DispatchAfter(job queue.Job, delay time.Duration) error {
	logger.Info("delayed job skipped, the server recheck picks it up",
		zap.String("job", job.Name()),
		zap.Duration("delay", delay))
	return nil
}
