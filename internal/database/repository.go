package database

import (
	"context"
	"domainkeeper/internal/types"
)

type DomainRepository interface {
	Create(ctx context.Context, domain *types.Domain) error
	Save(ctx context.Context, domain *types.Domain) error
	FindByID(ctx context.Context, vis Visibility, id uint, preloads ...string) (*types.Domain, error)
	List(ctx context.Context, vis Visibility, params types.ListParams) (*types.Page, error)
	All(ctx context.Context, vis Visibility, params types.ListParams) ([]*types.Domain, error)
	Exists(ctx context.Context, name string, domainType types.DomainType) (bool, error)
	Delete(ctx context.Context, domain *types.Domain) error
	FindAwaitingSSL(ctx context.Context) ([]*types.Domain, error)
}

type ConfigurationRepository interface {
	Save(ctx context.Context, cfg *types.DomainConfiguration) error
	FindAll(ctx context.Context) ([]*types.DomainConfiguration, error)
	FindByID(ctx context.Context, id uint) (*types.DomainConfiguration, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*types.DomainConfiguration, error)
}

type VerticalRepository interface {
	Save(ctx context.Context, vertical *types.CampaignVertical) error
	Names(ctx context.Context) (map[uint]string, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *types.User) error
	FindByID(ctx context.Context, id uint) (*types.User, error)
}

type ChangeLogRepository interface {
	Append(ctx context.Context, entry *types.ChangeLog) error
	FindByEntity(ctx context.Context, entityType string, entityID uint) ([]*types.ChangeLog, error)
}
