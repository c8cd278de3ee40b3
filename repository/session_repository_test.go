package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionRepository_CreateAndResolve(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)
	user := createTestUser(t, users, "session@example.com")

	session, err := sessions.Create(user.ID, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	got, err := sessions.GetUserByToken(session.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
}

func TestSessionRepository_UnknownToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := NewSessionRepository(db)

	_, err := sessions.GetUserByToken("not-a-real-token")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSessionRepository_ExpiredToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)
	user := createTestUser(t, users, "expired@example.com")

	session, err := sessions.Create(user.ID, -time.Minute)
	assert.NoError(t, err)

	_, err = sessions.GetUserByToken(session.Token)
	assert.True(t, errors.Is(err, ErrNotFound))

	// The expired row is gone afterwards
	_, err = sessions.GetUserByToken(session.Token)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSessionRepository_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)
	user := createTestUser(t, users, "logout@example.com")

	session, err := sessions.Create(user.ID, time.Hour)
	assert.NoError(t, err)

	assert.NoError(t, sessions.Delete(session.Token))

	_, err = sessions.GetUserByToken(session.Token)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)
	user := createTestUser(t, users, "cleanup@example.com")

	expired, err := sessions.Create(user.ID, -time.Hour)
	assert.NoError(t, err)
	live, err := sessions.Create(user.ID, time.Hour)
	assert.NoError(t, err)

	assert.NoError(t, sessions.DeleteExpired())

	_, err = sessions.GetUserByToken(expired.Token)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = sessions.GetUserByToken(live.Token)
	assert.NoError(t, err)
}
