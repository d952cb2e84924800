package audit_test

import (
	"context"
	"domainkeeper/internal/audit"
	"domainkeeper/internal/auth"
	"domainkeeper/internal/database"
	"domainkeeper/internal/database/databasetest"
	"domainkeeper/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSnapshot_DropsRelations(t *testing.T) {
	commit := "abc"
	d := &types.Domain{
		ID:            7,
		Name:          "example.com",
		SSL:           true,
		CommitID:      &commit,
		Configuration: &types.DomainConfiguration{ID: 5},
		Webmaster:     &types.User{ID: 1},
	}

	values, err := audit.Snapshot(d)
	require.NoError(t, err)

	assert.Equal(t, "example.com", values["name"])
	assert.Equal(t, true, values["ssl"])
	assert.Equal(t, "abc", values["commit_id"])
	assert.NotContains(t, values, "configuration")
	assert.NotContains(t, values, "webmaster")

	values, err = audit.Snapshot(nil)
	require.NoError(t, err)
	assert.Nil(t, values)
}

func TestEntityLogger_Write(t *testing.T) {
	db := databasetest.New(t)
	repo := database.NewChangeLogRepository(db)
	ctx := auth.WithActor(context.Background(), types.Actor{UserID: 4, Role: types.RoleAdmin})

	l := audit.NewDomainLogger(repo)
	l.SetOld(types.Snapshot{"ssl": false}, 7)
	require.NoError(t, l.Write(ctx, 7, types.DomainLogActionUpdate, types.Snapshot{"ssl": true}))

	entries, err := repo.FindByEntity(ctx, audit.EntityDomain, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "update", entries[0].Action)
	assert.Equal(t, false, entries[0].OldValues["ssl"])
	assert.Equal(t, true, entries[0].NewValues["ssl"])
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, uint(4), *entries[0].ActorID)
}

func TestEntityLogger_OldValuesOnlyForSameEntity(t *testing.T) {
	db := databasetest.New(t)
	repo := database.NewChangeLogRepository(db)
	ctx := context.Background()

	l := audit.NewDomainLogger(repo)
	l.SetOld(types.Snapshot{"ssl": false}, 7)
	require.NoError(t, l.Write(ctx, 8, types.DomainLogActionUpdate, types.Snapshot{"ssl": true}))

	entries, err := repo.FindByEntity(ctx, audit.EntityDomain, 8)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].OldValues)
	assert.Nil(t, entries[0].ActorID)
}
