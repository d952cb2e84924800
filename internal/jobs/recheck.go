package jobs

import (
	"context"
	"domainkeeper/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const RecheckSSLJobName = "ssl_recheck"

// RecheckSSLJob checks again every domain that has a commit but no certificate yet
type RecheckSSLJob struct {
	env *Env
}

func (e *Env) RecheckSSL() *RecheckSSLJob {
	return &RecheckSSLJob{env: e}
}

func (j *RecheckSSLJob) Name() string {
	return RecheckSSLJobName
}

func (j *RecheckSSLJob) Handle(ctx context.Context) error {
	domains, err := j.env.Domains.FindAwaitingSSL(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to find domains awaiting ssl")
	}

	for _, domain := range domains {
		if err := j.env.Queue.Dispatch(j.env.CheckDomainSSL(*domain.CommitID, domain.ID, 1)); err != nil {
			logger.Error("failed to queue ssl check",
				zap.Uint("domain_id", domain.ID),
				zap.Error(err))
		}
	}

	if len(domains) > 0 {
		logger.Info("ssl recheck queued", zap.Int("domains", len(domains)))
	}
	return nil
}
