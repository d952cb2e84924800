package cli_test

import (
	"context"
	"domainkeeper/internal/cli"
	"domainkeeper/internal/database"
	"domainkeeper/internal/database/databasetest"
	"domainkeeper/internal/integrations/gitlab/gitlabtest"
	"domainkeeper/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"path/filepath"
	"testing"
)

type env struct {
	dsn    string
	gitlab *gitlabtest.Server
}

func setupEnv(t *testing.T) env {
	t.Helper()

	dir := t.TempDir()
	e := env{dsn: filepath.Join(dir, "domainkeeper.db"), gitlab: gitlabtest.New(t)}
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", database.DriverSqlite)
	t.Setenv("DATABASE_DSN", e.dsn)
	t.Setenv("STORAGE_TYPE", "File")
	t.Setenv("STORAGE_PATH", filepath.Join(dir, "blobs"))
	t.Setenv("REDIS_URL", "")
	t.Setenv("GITLAB_URL", e.gitlab.URL)
	t.Setenv("GITLAB_TOKEN", "test-token")
	t.Setenv("GITLAB_PROJECT", "ops/ssl")
	t.Setenv("GITLAB_BRANCH", "main")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CONFIGURATIONS_FILE", "")
	return e
}

func (e env) open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.DriverSqlite, e.dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := cli.New()
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	return cmd.ExecuteContext(context.Background())
}

func TestMigrate(t *testing.T) {
	e := setupEnv(t)

	require.NoError(t, run(t, "migrate"))

	db := e.open(t)
	assert.True(t, db.Migrator().HasTable(&types.Domain{}))
	assert.True(t, db.Migrator().HasTable(&types.ChangeLog{}))
}

func TestSSLAdd(t *testing.T) {
	e := setupEnv(t)
	db := e.open(t)
	fx := databasetest.Seed(t, db)
	domain := databasetest.CreateDomain(t, db, "example.com", fx.SSLConfiguration.ID)

	require.NoError(t, run(t, "ssl", "add", "1"))

	content, ok := e.gitlab.File("ssl/ssl-eu-1.txt")
	require.True(t, ok)
	assert.Equal(t, "example.com\n", content)

	got, err := database.NewDomainRepository(db).FindByID(context.Background(), database.System(), domain.ID)
	require.NoError(t, err)
	assert.True(t, got.HasCommit())
	assert.False(t, got.SSL)

	require.NoError(t, run(t, "ssl", "remove", "1"))
	content, _ = e.gitlab.File("ssl/ssl-eu-1.txt")
	assert.Equal(t, "", content)
}

func TestDomainsDestroy(t *testing.T) {
	e := setupEnv(t)
	db := e.open(t)
	fx := databasetest.Seed(t, db)
	active := databasetest.CreateDomain(t, db, "active.com", fx.SSLConfiguration.ID)
	disabled := databasetest.CreateDomain(t, db, "disabled.com", fx.PlainConfiguration.ID, func(d *types.Domain) {
		d.StatusID = types.DomainStatusDisabled
	})

	assert.Error(t, run(t, "domains", "destroy", "--yes", "1"))
	require.NoError(t, run(t, "domains", "destroy", "--yes", "2"))

	repo := database.NewDomainRepository(db)
	_, err := repo.FindByID(context.Background(), database.System(), active.ID)
	assert.NoError(t, err)
	_, err = repo.FindByID(context.Background(), database.System(), disabled.ID)
	assert.Error(t, err)
}

func TestDomainsList(t *testing.T) {
	e := setupEnv(t)
	db := e.open(t)
	fx := databasetest.Seed(t, db)
	databasetest.CreateDomain(t, db, "example.com", fx.SSLConfiguration.ID)

	assert.NoError(t, run(t, "domains", "list", "--type", "primary"))
	assert.Error(t, run(t, "domains", "list", "--status", "42"))
}

func TestArguments(t *testing.T) {
	setupEnv(t)

	assert.Error(t, run(t, "ssl", "add", "abc"))
	assert.Error(t, run(t, "ssl", "add"))
	assert.Error(t, run(t, "token", "--role", "root", "--user", "1"))
	assert.NoError(t, run(t, "token", "--role", "admin", "--user", "1"))
}
