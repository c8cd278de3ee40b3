package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"movietrack/database"
	"movietrack/models"
)

// SessionRepository handles login session persistence. Sessions back the
// bearer tokens handed out at login; every protected request is resolved
// to a user through this table.
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create issues a new session for a user
func (r *SessionRepository) Create(userID int, ttl time.Duration) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	query := `INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.Exec(query, session.Token, session.UserID, session.CreatedAt, session.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetUserByToken resolves a session token to its user. Unknown and expired
// tokens both return ErrNotFound; expired rows are removed on the way out.
func (r *SessionRepository) GetUserByToken(token string) (*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password, u.created_at, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = ?
	`

	var user models.User
	var expiresAt time.Time
	err := r.db.QueryRow(query, token).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt,
		&expiresAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if time.Now().After(expiresAt) {
		if err := r.Delete(token); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("session expired: %w", ErrNotFound)
	}

	return &user, nil
}

// Delete removes a session, logging the user out
func (r *SessionRepository) Delete(token string) error {
	query := `DELETE FROM sessions WHERE token = ?`
	if _, err := r.db.Exec(query, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose expiry has passed
func (r *SessionRepository) DeleteExpired() error {
	query := `DELETE FROM sessions WHERE expires_at < ?`
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
