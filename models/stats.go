package models

// GenreCount is one entry in the genre distribution
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// FavoriteGenre is the most frequently watched genre
type FavoriteGenre struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatsSummary aggregates a user's collection into dashboard numbers
type StatsSummary struct {
	TotalMovies       int            `json:"totalMovies"`
	AverageRating     float64        `json:"averageRating"`
	FavoriteGenre     *FavoriteGenre `json:"favoriteGenre"`
	MoviesThisMonth   int            `json:"moviesThisMonth"`
	HighestRatedMovie *Movie         `json:"highestRatedMovie"`
	GenreDistribution []GenreCount   `json:"genreDistribution"`
}

// StatsResponse is the body of the stats endpoint
type StatsResponse struct {
	Stats        *StatsSummary `json:"stats"`
	RecentMovies []Movie       `json:"recentMovies"`
}
