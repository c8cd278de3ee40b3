package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"movietrack/database"
	"movietrack/models"
)

// MovieRepository handles database operations for movies
type MovieRepository struct {
	db *database.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *database.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// GetByUserID retrieves all movies owned by a user, newest first
func (r *MovieRepository) GetByUserID(userID int) ([]models.Movie, error) {
	query := `
		SELECT id, title, genre, rating, watch_date, image_url, notes, user_id, created_at
		FROM movies
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Failed to close rows: %v", err)
		}
	}()

	var movies []models.Movie
	for rows.Next() {
		var movie models.Movie
		var imageURL, notes sql.NullString

		err := rows.Scan(
			&movie.ID, &movie.Title, &movie.Genre, &movie.Rating,
			&movie.WatchDate, &imageURL, &notes, &movie.UserID,
			&movie.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}

		if imageURL.Valid {
			movie.ImageURL = imageURL.String
		}
		if notes.Valid {
			movie.Notes = notes.String
		}

		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return movies, nil
}

// Create inserts a new movie into the database
func (r *MovieRepository) Create(movie *models.Movie) error {
	query := `
		INSERT INTO movies (title, genre, rating, watch_date, image_url, notes, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = time.Now()
	}

	result, err := r.db.Exec(query,
		movie.Title, movie.Genre, movie.Rating, movie.WatchDate,
		nullString(movie.ImageURL), nullString(movie.Notes),
		movie.UserID, movie.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	movie.ID = int(id)
	return nil
}

// DeleteByOwner removes a movie if, and only if, it belongs to the given
// user. A movie owned by someone else is indistinguishable from a missing
// one: both return ErrNotFound.
func (r *MovieRepository) DeleteByOwner(movieID, userID int) error {
	query := `DELETE FROM movies WHERE id = ? AND user_id = ?`

	result, err := r.db.Exec(query, movieID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("movie with id %d: %w", movieID, ErrNotFound)
	}

	return nil
}

// Helper for handling optional text columns
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
