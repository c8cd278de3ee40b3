// Package services holds the in-process computation layer.
package services

import (
	"math"
	"sort"
	"time"

	"movietrack/models"
)

// RecentMoviesLimit is how many movies the recent list carries
const RecentMoviesLimit = 5

// ComputeStats summarizes a user's collection. It is a pure function of
// the movie list and the supplied clock; handlers pass time.Now().
//
// Tie-breaks are part of the contract: when genres tie on count or movies
// tie on rating, the one encountered first in input order wins.
func ComputeStats(movies []models.Movie, now time.Time) *models.StatsSummary {
	stats := &models.StatsSummary{
		TotalMovies:       len(movies),
		GenreDistribution: []models.GenreCount{},
	}

	if len(movies) == 0 {
		return stats
	}

	var ratingSum float64
	for _, movie := range movies {
		ratingSum += movie.Rating
	}
	stats.AverageRating = math.Round(ratingSum/float64(len(movies))*10) / 10

	// Count genres in encounter order, then stable-sort by count so ties
	// keep that order.
	counts := make(map[string]int)
	for _, movie := range movies {
		if counts[movie.Genre] == 0 {
			stats.GenreDistribution = append(stats.GenreDistribution, models.GenreCount{Genre: movie.Genre})
		}
		counts[movie.Genre]++
	}
	for i := range stats.GenreDistribution {
		stats.GenreDistribution[i].Count = counts[stats.GenreDistribution[i].Genre]
	}
	sort.SliceStable(stats.GenreDistribution, func(i, j int) bool {
		return stats.GenreDistribution[i].Count > stats.GenreDistribution[j].Count
	})

	stats.FavoriteGenre = &models.FavoriteGenre{
		Name:  stats.GenreDistribution[0].Genre,
		Count: stats.GenreDistribution[0].Count,
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, movie := range movies {
		if !movie.CreatedAt.Before(firstOfMonth) {
			stats.MoviesThisMonth++
		}
	}

	// Keep the previous movie unless the current rating is strictly
	// greater, so the first of a tie wins.
	highest := movies[0]
	for _, movie := range movies[1:] {
		if movie.Rating > highest.Rating {
			highest = movie
		}
	}
	stats.HighestRatedMovie = &highest

	return stats
}

// RecentMovies returns the most recently added movies, newest first,
// capped at RecentMoviesLimit. The input is not modified.
func RecentMovies(movies []models.Movie) []models.Movie {
	recent := make([]models.Movie, len(movies))
	copy(recent, movies)

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	if len(recent) > RecentMoviesLimit {
		recent = recent[:RecentMoviesLimit]
	}
	return recent
}
