package models

import "time"

// Genres is the fixed set of categories a movie can be filed under
var Genres = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime",
	"Documentary", "Drama", "Fantasy", "Horror", "Mystery",
	"Romance", "Sci-Fi", "Thriller", "Western",
}

// Movie represents a watched movie in a user's collection
type Movie struct {
	ID        int         `json:"id"`
	Title     string      `json:"title"`
	Genre     string      `json:"genre"`
	Rating    float64     `json:"rating"`
	WatchDate time.Time   `json:"watchDate"`
	ImageURL  string      `json:"imageUrl,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	UserID    int         `json:"-"`
	User      *MovieOwner `json:"user,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// MovieOwner is the subset of the owning user attached to create responses
type MovieOwner struct {
	Name string `json:"name"`
}

// CreateMovieRequest is the payload for adding a movie to a collection.
// The watch date is accepted as YYYY-MM-DD or RFC 3339.
type CreateMovieRequest struct {
	Title     string  `json:"title" validate:"required"`
	Genre     string  `json:"genre" validate:"required,oneof=Action Adventure Animation Comedy Crime Documentary Drama Fantasy Horror Mystery Romance Sci-Fi Thriller Western"`
	Rating    float64 `json:"rating" validate:"required,gte=1,lte=10"`
	WatchDate string  `json:"watchDate" validate:"required"`
	ImageURL  string  `json:"imageUrl"`
	Notes     string  `json:"notes"`
}
