package database

import (
	"context"
	"domainkeeper/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	configurationRepository struct {
		db *gorm.DB
	}

	verticalRepository struct {
		db *gorm.DB
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewConfigurationRepository(db *gorm.DB) ConfigurationRepository {
	return &configurationRepository{db: db}
}

// Save upserts cfg and replaces its country list
func (c *configurationRepository) Save(ctx context.Context, cfg *types.DomainConfiguration) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(cfg).Error
		if err != nil {
			return err
		}
		return tx.Model(cfg).Association("Countries").Replace(cfg.Countries)
	})
}

func (c *configurationRepository) FindAll(ctx context.Context) ([]*types.DomainConfiguration, error) {
	result := make([]*types.DomainConfiguration, 0)
	err := c.db.WithContext(ctx).
		Preload("Countries").
		Order("id ASC").
		Find(&result).Error
	return result, err
}

func (c *configurationRepository) FindByID(ctx context.Context, id uint) (*types.DomainConfiguration, error) {
	cfg := &types.DomainConfiguration{}
	err := c.db.WithContext(ctx).Preload("Countries").Where("id = ?", id).First(cfg).Error
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *configurationRepository) FindByIDs(ctx context.Context, ids []uint) ([]*types.DomainConfiguration, error) {
	result := make([]*types.DomainConfiguration, 0)
	if len(ids) == 0 {
		return result, nil
	}
	err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&result).Error
	return result, err
}

func NewVerticalRepository(db *gorm.DB) VerticalRepository {
	return &verticalRepository{db: db}
}

func (v *verticalRepository) Save(ctx context.Context, vertical *types.CampaignVertical) error {
	return v.db.WithContext(ctx).Save(vertical).Error
}

// Names maps vertical ids to their names
func (v *verticalRepository) Names(ctx context.Context) (map[uint]string, error) {
	values := make([]*types.CampaignVertical, 0)
	if err := v.db.WithContext(ctx).Find(&values).Error; err != nil {
		return nil, err
	}

	result := make(map[uint]string, len(values))
	for _, next := range values {
		result[next.ID] = next.Name
	}
	return result, nil
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (u *userRepository) Save(ctx context.Context, user *types.User) error {
	return u.db.WithContext(ctx).Save(user).Error
}

func (u *userRepository) FindByID(ctx context.Context, id uint) (*types.User, error) {
	user := &types.User{}
	if err := u.db.WithContext(ctx).Where("id = ?", id).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
