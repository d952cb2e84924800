package jobs

import (
	"context"
	"domainkeeper/internal/audit"
	"domainkeeper/internal/database"
	"domainkeeper/internal/domainrepo"
	"domainkeeper/internal/types"
	"domainkeeper/logger"
	"errors"
	errors2 "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"time"
)

const (
	CheckDomainSSLJobName = "ssl_check"
	// MaxCheckAttempts bounds how often an unfinished pipeline is polled
	MaxCheckAttempts = 6
	sslCheckTries    = 3
	sslCheckBackoff  = 10 * time.Second
)

// CheckDomainSSLJob marks a domain as having a certificate once the pipeline of
// the commit that added it succeeded
type CheckDomainSSLJob struct {
	CommitID string
	DomainID uint
	Attempt  int
	env      *Env
}

func (e *Env) CheckDomainSSL(commitID string, domainID uint, attempt int) *CheckDomainSSLJob {
	return &CheckDomainSSLJob{CommitID: commitID, DomainID: domainID, Attempt: attempt, env: e}
}

func (j *CheckDomainSSLJob) Name() string {
	return CheckDomainSSLJobName
}

func (j *CheckDomainSSLJob) Tries() int {
	return sslCheckTries
}

func (j *CheckDomainSSLJob) Backoff() time.Duration {
	return sslCheckBackoff
}

func (j *CheckDomainSSLJob) Handle(ctx context.Context) error {
	fields := []zap.Field{
		zap.Uint("domain_id", j.DomainID),
		zap.String("commit_id", j.CommitID),
		zap.Int("attempt", j.Attempt),
	}

	status, err := j.env.Repository.PipelineStatus(ctx, j.CommitID)
	if err != nil {
		return errors2.Wrap(err, "failed to read pipeline status")
	}

	switch status {
	case domainrepo.PipelineSuccess:
		return j.markIssued(ctx, fields)
	case domainrepo.PipelineFailed, domainrepo.PipelineCanceled, domainrepo.PipelineSkipped:
		logger.Warn("ssl pipeline did not succeed", append(fields, zap.String("status", string(status)))...)
		return nil
	}

	if j.Attempt >= MaxCheckAttempts {
		logger.Warn("ssl pipeline still unfinished, giving up", append(fields, zap.String("status", string(status)))...)
		return nil
	}

	next := j.env.CheckDomainSSL(j.CommitID, j.DomainID, j.Attempt+1)
	return j.env.Queue.DispatchAfter(next, domainrepo.CheckPipelineDelay)
}

func (j *CheckDomainSSLJob) markIssued(ctx context.Context, fields []zap.Field) error {
	unlock, err := j.env.lockDomain(ctx, j.DomainID)
	if err != nil {
		return err
	}
	defer unlock()

	domain, err := j.env.Domains.FindByID(ctx, database.System().WithTrashed(), j.DomainID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return errors2.Wrap(err, "failed to load domain")
	}

	// a later add or remove replaced the commit this check was waiting for
	if !domain.HasCommit() || *domain.CommitID != j.CommitID {
		logger.Info("ssl check outdated", fields...)
		return nil
	}
	if domain.SSL {
		return nil
	}

	changeLog := audit.NewDomainLogger(j.env.ChangeLogs)
	old, err := audit.Snapshot(domain)
	if err != nil {
		return err
	}
	changeLog.SetOld(old, domain.ID)

	domain.SSL = true
	if err := j.env.Domains.Save(ctx, domain); err != nil {
		return errors2.Wrap(err, "failed to save domain")
	}
	logger.Info("ssl certificate issued", fields...)

	current, err := audit.Snapshot(domain)
	if err == nil {
		err = changeLog.Write(ctx, domain.ID, types.DomainLogActionUpdate, current)
	}
	if err != nil {
		logger.Error("failed to write ssl change log", append(fields, zap.Error(err))...)
	}
	return nil
}
