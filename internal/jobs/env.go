package jobs

import (
	"context"
	"domainkeeper/internal/availability"
	"domainkeeper/internal/database"
	"domainkeeper/internal/domainrepo"
	"domainkeeper/internal/lock"
	"domainkeeper/internal/metrics"
	"domainkeeper/internal/misc"
	"domainkeeper/internal/queue"
	"domainkeeper/internal/types"
	"time"
)

// lockTimeout bounds how long a job waits for another job on the same domain
const lockTimeout = time.Minute

type (
	// BuyNotifier announces domains that have to be purchased
	BuyNotifier interface {
		SendBuyDomainEmail(ctx context.Context, domains ...*types.Domain)
	}

	// Registrar inserts a new domain whose availability was already checked
	Registrar interface {
		Register(ctx context.Context, params types.CreateDomainParams, report availability.Report) (*types.Domain, error)
	}

	// Env holds the collaborators shared by every job
	Env struct {
		Domains        database.DomainRepository
		Configurations database.ConfigurationRepository
		ChangeLogs     database.ChangeLogRepository
		Repository     domainrepo.Service
		Locker         lock.Locker
		Queue          queue.Dispatcher
		Metrics        *metrics.Metrics
		Validator      availability.Validator
		Notifier       BuyNotifier
		Labels         misc.LabelGenerator
	}
)

// lockDomain holds the per-domain lock, the returned func releases it
func (e *Env) lockDomain(ctx context.Context, domainID uint) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	return e.Locker.Lock(lockCtx, lock.DomainKey(domainID))
}
