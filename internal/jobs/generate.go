package jobs

import (
	"context"
	"domainkeeper/internal/misc"
	"domainkeeper/internal/types"
	"domainkeeper/logger"
	"errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	GenerateDomainsJobName = "generate_domains"
	// MaxCandidates is how many random names are tried per requested configuration
	MaxCandidates = 5
)

var ErrDomainExists = errors.New("domain already exists")

// GenerateDomainsJob creates one unregistered random domain per requested
// configuration and sends a single purchase request for all of them
type GenerateDomainsJob struct {
	ConfigurationIDs []uint
	UserID           *uint
	env              *Env
	registrar        Registrar
}

func (e *Env) GenerateDomains(registrar Registrar, configurationIDs []uint, userID *uint) *GenerateDomainsJob {
	return &GenerateDomainsJob{
		ConfigurationIDs: configurationIDs,
		UserID:           userID,
		env:              e,
		registrar:        registrar,
	}
}

func (j *GenerateDomainsJob) Name() string {
	return GenerateDomainsJobName
}

func (j *GenerateDomainsJob) Handle(ctx context.Context) error {
	configurations, err := j.env.Configurations.FindByIDs(ctx, lo.Uniq(j.ConfigurationIDs))
	if err != nil {
		return err
	}
	byID := lo.KeyBy(configurations, func(item *types.DomainConfiguration) uint {
		return item.ID
	})

	created := make([]*types.Domain, 0, len(j.ConfigurationIDs))
	for _, id := range j.ConfigurationIDs {
		cfg, ok := byID[id]
		if !ok {
			logger.Warn("unknown configuration requested", zap.Uint("configuration_id", id))
			continue
		}

		domain, err := j.generate(ctx, cfg)
		if err != nil {
			logger.Error("failed to generate domain",
				zap.Uint("configuration_id", id),
				zap.Error(err))
			continue
		}
		created = append(created, domain)
	}

	j.env.Notifier.SendBuyDomainEmail(ctx, created...)
	return nil
}

func (j *GenerateDomainsJob) generate(ctx context.Context, cfg *types.DomainConfiguration) (*types.Domain, error) {
	var lastErr error
	for i := 0; i < MaxCandidates; i++ {
		name, err := misc.CandidateName(j.env.Labels, cfg.Zone)
		if err != nil {
			return nil, err
		}

		report, err := j.env.Validator.Check(ctx, name)
		if err != nil {
			lastErr = err
			continue
		}
		if report.Registered {
			continue
		}

		domain, err := j.registrar.Register(ctx, types.CreateDomainParams{
			Name:            name,
			Type:            cfg.DefaultType(),
			ConfigurationID: cfg.ID,
			UserID:          j.UserID,
		}, report)
		if errors.Is(err, ErrDomainExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return domain, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("no unregistered candidate found")
}
