package database

import (
	"context"
	"domainkeeper/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"math"
)

type domainRepository struct {
	db *gorm.DB
}

func NewDomainRepository(db *gorm.DB) DomainRepository {
	return &domainRepository{db: db}
}

func (d *domainRepository) Create(ctx context.Context, domain *types.Domain) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(domain).Error
}

// Save persists every column of domain. Soft deleted rows are written too, the SSL
// jobs update domains that were trashed after they were queued.
func (d *domainRepository) Save(ctx context.Context, domain *types.Domain) error {
	return d.db.WithContext(ctx).
		Unscoped().
		Omit(clause.Associations).
		Save(domain).Error
}

func (d *domainRepository) FindByID(ctx context.Context, vis Visibility, id uint, preloads ...string) (*types.Domain, error) {
	q := vis.apply(d.db.WithContext(ctx).Model(&types.Domain{}), d.db)
	for _, p := range preloads {
		q = q.Preload(p)
	}

	domain := &types.Domain{}
	if err := q.Where("domains.id = ?", id).First(domain).Error; err != nil {
		return nil, err
	}
	return domain, nil
}

func (d *domainRepository) List(ctx context.Context, vis Visibility, params types.ListParams) (*types.Page, error) {
	base := d.filtered(ctx, vis, params.Filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	page, perPage := normalizePage(params.Page, params.PerPage)
	q, err := applySort(base.Session(&gorm.Session{}), params.Sort)
	if err != nil {
		return nil, err
	}

	items := make([]*types.Domain, 0, perPage)
	err = q.
		Preload("Vertical").
		Preload("Webmaster").
		Preload("Configuration.Countries").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	lastPage := int(math.Ceil(float64(total) / float64(perPage)))
	if lastPage == 0 {
		lastPage = 1
	}

	return &types.Page{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		PerPage:     perPage,
		LastPage:    lastPage,
	}, nil
}

// All returns every row matching params without pagination, for exports
func (d *domainRepository) All(ctx context.Context, vis Visibility, params types.ListParams) ([]*types.Domain, error) {
	q, err := applySort(d.filtered(ctx, vis, params.Filter), params.Sort)
	if err != nil {
		return nil, err
	}

	items := make([]*types.Domain, 0)
	err = q.
		Preload("Vertical").
		Preload("Webmaster").
		Preload("Configuration.Countries").
		Find(&items).Error
	return items, err
}

// Exists checks the name/type unique key, including soft deleted rows
func (d *domainRepository) Exists(ctx context.Context, name string, domainType types.DomainType) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Unscoped().
		Model(&types.Domain{}).
		Where("name = ? AND type = ?", name, domainType).
		Count(&count).Error
	return count > 0, err
}

func (d *domainRepository) Delete(ctx context.Context, domain *types.Domain) error {
	return d.db.WithContext(ctx).Delete(domain).Error
}

// FindAwaitingSSL returns domains that have a commit in the SSL repository but no
// confirmed certificate yet
func (d *domainRepository) FindAwaitingSSL(ctx context.Context) ([]*types.Domain, error) {
	result := make([]*types.Domain, 0)
	err := d.db.WithContext(ctx).
		Where("domains.ssl = ? AND domains.commit_id IS NOT NULL AND domains.commit_id <> ''", false).
		Find(&result).Error
	return result, err
}

func (d *domainRepository) filtered(ctx context.Context, vis Visibility, f types.DomainFilter) *gorm.DB {
	q := vis.apply(d.db.WithContext(ctx).Model(&types.Domain{}), d.db)
	return applyFilter(q, d.db, f)
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = types.DefaultPerPage
	}
	if perPage > types.MaxPerPage {
		perPage = types.MaxPerPage
	}
	return page, perPage
}
