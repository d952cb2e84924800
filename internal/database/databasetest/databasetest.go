// Package databasetest opens throwaway migrated databases for tests.
package databasetest

import (
	"context"
	"domainkeeper/internal/database"
	"domainkeeper/internal/types"
	"fmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"testing"
)

// New returns a migrated in-memory sqlite database private to t
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.DriverSqlite, dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// shared cache connections fail with "table is locked" on concurrent writes
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// Fixtures is the reference data created by Seed
type Fixtures struct {
	SSLConfiguration   *types.DomainConfiguration
	PlainConfiguration *types.DomainConfiguration
	Vertical           *types.CampaignVertical
	Germany, France    types.Country
	Manager, Webmaster *types.User
}

// Seed creates two configurations (one with an SSL server), a vertical and a
// manager with one webmaster
func Seed(t *testing.T, db *gorm.DB) Fixtures {
	t.Helper()
	ctx := context.Background()

	f := Fixtures{
		Germany: types.Country{ID: 1, Code: "DE", Name: "Germany"},
		France:  types.Country{ID: 2, Code: "FR", Name: "France"},
	}
	require.NoError(t, db.Create(&[]types.Country{f.Germany, f.France}).Error)

	configurations := database.NewConfigurationRepository(db)
	f.SSLConfiguration = &types.DomainConfiguration{
		ID:         5,
		Name:       "eu-ssl",
		SSLServer:  "ssl-eu-1",
		CName:      "lb.eu.example.net",
		AlterCName: "lb2.eu.example.net",
		Zone:       "com",
		DomainType: types.DomainTypePrimary,
		Countries:  []types.Country{f.Germany},
	}
	require.NoError(t, configurations.Save(ctx, f.SSLConfiguration))

	f.PlainConfiguration = &types.DomainConfiguration{
		ID:        6,
		Name:      "fr-plain",
		CName:     "lb.fr.example.net",
		Zone:      "fr",
		Countries: []types.Country{f.France},
	}
	require.NoError(t, configurations.Save(ctx, f.PlainConfiguration))

	f.Vertical = &types.CampaignVertical{ID: 3, Name: "Finance"}
	require.NoError(t, database.NewVerticalRepository(db).Save(ctx, f.Vertical))

	users := database.NewUserRepository(db)
	f.Manager = &types.User{ID: 10, Email: "manager@example.com", Role: types.RoleManager}
	require.NoError(t, users.Save(ctx, f.Manager))

	f.Webmaster = &types.User{ID: 11, Email: "webmaster@example.com", Role: types.RoleWebmaster, ManagerID: &f.Manager.ID}
	require.NoError(t, users.Save(ctx, f.Webmaster))

	return f
}

// CreateDomain inserts a domain with sensible defaults overridden by mutate
func CreateDomain(t *testing.T, db *gorm.DB, name string, configurationID uint, mutate ...func(d *types.Domain)) *types.Domain {
	t.Helper()

	d := &types.Domain{
		Name:            name,
		Type:            types.DomainTypePrimary,
		StatusID:        types.DomainStatusAvailable,
		ConfigurationID: configurationID,
	}
	for _, fn := range mutate {
		fn(d)
	}
	require.NoError(t, database.NewDomainRepository(db).Create(context.Background(), d))
	return d
}
