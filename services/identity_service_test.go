package services

import (
	"testing"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterStoresHashAndIssuesToken(t *testing.T) {
	f := newFixture(t)
	bio := "  I teach guitar  "

	user, token, err := f.identity.Register(f.ctx, Registration{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
		Bio:      &bio,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	require.NotNil(t, user.Bio)
	assert.Equal(t, "I teach guitar", *user.Bio)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

	id, err := UserIDFromClaims(parseClaims(t, "test-secret", token))
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice")

	_, _, err := f.identity.Register(f.ctx, Registration{Username: "alice", Email: "other@example.com", Password: "secret123"})
	requireKind(t, err, KindConflict)

	_, _, err = f.identity.Register(f.ctx, Registration{Username: "alice2", Email: "ALICE@example.com", Password: "secret123"})
	requireKind(t, err, KindConflict)

	assert.Equal(t, int64(1), f.count(t, &models.User{}))
}

func TestRegisterRequiresFields(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.identity.Register(f.ctx, Registration{Username: " ", Email: "a@example.com", Password: "secret123"})
	requireKind(t, err, KindValidation)

	_, _, err = f.identity.Register(f.ctx, Registration{Username: "a", Email: "a@example.com"})
	requireKind(t, err, KindValidation)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	user, token, err := f.identity.Authenticate(f.ctx, "ALICE@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, err = f.identity.Authenticate(f.ctx, "alice@example.com", "wrong")
	requireKind(t, err, KindUnauthorized)

	_, _, err = f.identity.Authenticate(f.ctx, "nobody@example.com", "secret123")
	requireKind(t, err, KindUnauthorized)
	assert.Equal(t, "invalid email or password", err.Error())
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	got, err := f.identity.GetProfile(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = f.identity.GetProfile(f.ctx, uuid.New())
	requireKind(t, err, KindNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	f.user(t, "bob")

	taken := "bob"
	_, err := f.identity.UpdateProfile(f.ctx, alice.ID, ProfilePatch{Username: &taken})
	requireKind(t, err, KindConflict)

	empty := ""
	_, err = f.identity.UpdateProfile(f.ctx, alice.ID, ProfilePatch{Username: &empty})
	requireKind(t, err, KindValidation)

	name, bio := "alice_b", "Guitarist"
	updated, err := f.identity.UpdateProfile(f.ctx, alice.ID, ProfilePatch{Username: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "alice_b", updated.Username)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "Guitarist", *updated.Bio)

	same := "alice_b"
	_, err = f.identity.UpdateProfile(f.ctx, alice.ID, ProfilePatch{Username: &same})
	assert.NoError(t, err)
}
