package auth

import (
	"context"
	"domainkeeper/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestTokenService_RoundTrip(t *testing.T) {
	s := NewTokenService("secret")

	token, err := s.Generate(types.Actor{UserID: 11, Role: types.RoleWebmaster}, time.Hour)
	require.NoError(t, err)

	actor, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, types.Actor{UserID: 11, Role: types.RoleWebmaster}, actor)
}

func TestTokenService_Rejects(t *testing.T) {
	s := NewTokenService("secret")

	expired, err := s.Generate(types.Actor{UserID: 1, Role: types.RoleAdmin}, -time.Minute)
	require.NoError(t, err)
	_, err = s.Validate(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	foreign, err := NewTokenService("other").Generate(types.Actor{UserID: 1, Role: types.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	_, err = s.Validate(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "root",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = s.Validate(badRole)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: types.RoleAdmin}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = s.Validate(noSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestActorContext(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithActor(context.Background(), types.Actor{UserID: 3, Role: types.RoleManager})
	actor, ok := ActorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(3), actor.UserID)
}
