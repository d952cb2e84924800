package database

import (
	"context"
	"domainkeeper/internal/types"
	"fmt"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"io"
	"os"
	"strings"
)

type (
	// SeedFile is the YAML layout of the reference data loaded by Seed
	SeedFile struct {
		Countries      []types.Country          `yaml:"countries"`
		Verticals      []types.CampaignVertical `yaml:"verticals"`
		Configurations []SeedConfiguration      `yaml:"configurations"`
	}

	SeedConfiguration struct {
		ID           uint             `yaml:"id"`
		Name         string           `yaml:"name"`
		SSLServer    string           `yaml:"ssl_server"`
		CName        string           `yaml:"cname"`
		AlterCName   string           `yaml:"alter_cname"`
		Zone         string           `yaml:"zone"`
		DomainType   types.DomainType `yaml:"domain_type"`
		CountryCodes []string         `yaml:"countries"`
	}
)

func SeedFromFile(ctx context.Context, db *gorm.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open seed file")
	}
	defer f.Close()
	return Seed(ctx, db, f)
}

// Seed upserts countries, verticals and domain configurations read from r
func Seed(ctx context.Context, db *gorm.DB, r io.Reader) error {
	seed := SeedFile{}
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return errors.Wrap(err, "failed to decode seed file")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(seed.Countries) > 0 {
			err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&seed.Countries).Error
			if err != nil {
				return errors.Wrap(err, "failed to seed countries")
			}
		}

		if len(seed.Verticals) > 0 {
			err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&seed.Verticals).Error
			if err != nil {
				return errors.Wrap(err, "failed to seed verticals")
			}
		}

		countries := make([]types.Country, 0)
		if err := tx.Find(&countries).Error; err != nil {
			return err
		}
		byCode := lo.KeyBy(countries, func(item types.Country) string {
			return strings.ToUpper(item.Code)
		})

		repo := NewConfigurationRepository(tx)
		for _, next := range seed.Configurations {
			cfg := &types.DomainConfiguration{
				ID:         next.ID,
				Name:       next.Name,
				SSLServer:  next.SSLServer,
				CName:      next.CName,
				AlterCName: next.AlterCName,
				Zone:       next.Zone,
				DomainType: next.DomainType,
				Countries:  make([]types.Country, 0, len(next.CountryCodes)),
			}
			for _, code := range next.CountryCodes {
				country, ok := byCode[strings.ToUpper(code)]
				if !ok {
					return fmt.Errorf("configuration %q references unknown country %q", next.Name, code)
				}
				cfg.Countries = append(cfg.Countries, country)
			}

			if err := repo.Save(ctx, cfg); err != nil {
				return errors.Wrap(err, "failed to seed configuration "+next.Name)
			}
		}
		return nil
	})
}
