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
	UpdateDomainSSLJobName = "ssl_update"
	sslUpdateTries         = 3
	sslUpdateBackoff       = 10 * time.Second
)

// UpdateDomainSSLJob adds a domain to, or removes it from, the certificate list of
// its SSL server
type UpdateDomainSSLJob struct {
	Action   types.DomainAction
	DomainID uint
	env      *Env

	// pendingCommit is a commit that reached the repository on an attempt whose save
	// failed. Retries reuse the job, so the next attempt can still record it.
	pendingCommit string
}

func (e *Env) UpdateDomainSSL(action types.DomainAction, domainID uint) *UpdateDomainSSLJob {
	return &UpdateDomainSSLJob{Action: action, DomainID: domainID, env: e}
}

func (j *UpdateDomainSSLJob) Name() string {
	return UpdateDomainSSLJobName
}

func (j *UpdateDomainSSLJob) Tries() int {
	return sslUpdateTries
}

func (j *UpdateDomainSSLJob) Backoff() time.Duration {
	return sslUpdateBackoff
}

func (j *UpdateDomainSSLJob) Handle(ctx context.Context) error {
	unlock, err := j.env.lockDomain(ctx, j.DomainID)
	if err != nil {
		return err
	}
	defer unlock()

	domain, err := j.env.Domains.FindByID(ctx, database.System().WithTrashed(), j.DomainID, "Configuration")
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("ssl update skipped, domain does not exist",
			zap.Uint("domain_id", j.DomainID),
			zap.String("action", j.Action.String()))
		return nil
	}
	if err != nil {
		return errors2.Wrap(err, "failed to load domain")
	}

	if !domain.Configuration.HasSSLServer() {
		return nil
	}

	changeLog := audit.NewDomainLogger(j.env.ChangeLogs)
	old, err := audit.Snapshot(domain)
	if err != nil {
		return err
	}
	changeLog.SetOld(old, domain.ID)

	defer func() {
		current, snapErr := audit.Snapshot(domain)
		if snapErr == nil {
			snapErr = changeLog.Write(ctx, domain.ID, types.DomainLogActionUpdate, current)
		}
		if snapErr != nil {
			logger.Error("failed to write ssl change log",
				zap.Uint("domain_id", domain.ID),
				zap.Error(snapErr))
		}
	}()

	message := domainrepo.CommitMessage(j.Action, domain)
	result := j.env.Repository.UpdateFile(ctx, j.Action, domain, message)
	j.env.Metrics.ObserveSSLUpdate(j.Action.String(), result.Outcome.String())

	fields := []zap.Field{
		zap.Uint("domain_id", domain.ID),
		zap.String("domain", domain.Name),
		zap.String("action", j.Action.String()),
		zap.String("outcome", result.Outcome.String()),
	}

	switch result.Outcome {
	case domainrepo.OutcomeApplied:
		prevSSL, prevCommit := domain.SSL, domain.CommitID
		if j.Action == types.DomainActionAdd {
			domain.SetCommit(result.CommitID)
		} else {
			domain.SSL = false
			domain.ClearCommit()
		}
		if err := j.env.Domains.Save(ctx, domain); err != nil {
			domain.SSL, domain.CommitID = prevSSL, prevCommit
			if j.Action == types.DomainActionAdd {
				j.pendingCommit = result.CommitID
			}
			logger.Error("ssl domain list updated but the domain was not saved",
				append(fields, zap.String("commit_id", result.CommitID), zap.Error(err))...)
			return errors2.Wrap(err, "failed to save domain")
		}
		logger.Info("ssl domain list updated", append(fields, zap.String("commit_id", result.CommitID))...)
		if j.Action == types.DomainActionAdd {
			j.scheduleCheck(domain.ID, result.CommitID)
		}

	case domainrepo.OutcomeAlreadyPresent:
		if j.Action == types.DomainActionAdd && !domain.HasCommit() && j.pendingCommit != "" {
			domain.SetCommit(j.pendingCommit)
			if err := j.env.Domains.Save(ctx, domain); err != nil {
				domain.ClearCommit()
				return errors2.Wrap(err, "failed to save domain")
			}
			logger.Info("pending ssl commit recorded", append(fields, zap.String("commit_id", j.pendingCommit))...)
			j.pendingCommit = ""
		}
		if !domain.SSL && domain.HasCommit() {
			j.scheduleCheck(domain.ID, *domain.CommitID)
		}

	case domainrepo.OutcomeNotPresent:
		domain.SSL = false
		if err := j.env.Domains.Save(ctx, domain); err != nil {
			return errors2.Wrap(err, "failed to save domain")
		}

	default:
		logger.Warn("ssl domain list update failed", append(fields, zap.Error(result.Err))...)
		return errors2.Wrapf(result.Err, "failed to %s domain %d", j.Action, domain.ID)
	}
	return nil
}

func (j *UpdateDomainSSLJob) scheduleCheck(domainID uint, commitID string) {
	check := j.env.CheckDomainSSL(commitID, domainID, 1)
	if err := j.env.Queue.DispatchAfter(check, domainrepo.CheckPipelineDelay); err != nil {
		logger.Error("failed to schedule ssl check",
			zap.Uint("domain_id", domainID),
			zap.String("commit_id", commitID),
			zap.Error(err))
	}
}
