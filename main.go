// Package main provides the main entry point for the movie tracking application.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"movietrack/database"
	"movietrack/models"
	"movietrack/repository"
	"movietrack/services"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

// App represents the application with its dependencies
type App struct {
	userRepo    *repository.UserRepository
	movieRepo   *repository.MovieRepository
	sessionRepo *repository.SessionRepository

	allowDecimalRatings bool
	sessionTTL          time.Duration
}

var validate = validator.New()

type contextKey string

const userContextKey contextKey = "user"

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "movietrack.db"
	}

	// Initialize database
	db, err := database.NewDB(dbPath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// Initialize schema
	if err := db.InitSchema(); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Drop stale sessions left over from previous runs
	if err := sessionRepo.DeleteExpired(); err != nil {
		log.Printf("Warning: Could not clean up expired sessions: %v", err)
	}

	allowDecimalRatings := os.Getenv("ALLOW_DECIMAL_RATINGS") == "true"
	if allowDecimalRatings {
		log.Println("Decimal ratings enabled")
	}

	sessionTTL := 7 * 24 * time.Hour
	if hours := os.Getenv("SESSION_TTL_HOURS"); hours != "" {
		n, err := strconv.Atoi(hours)
		if err != nil || n <= 0 {
			log.Printf("Warning: Invalid SESSION_TTL_HOURS %q, using default", hours)
		} else {
			sessionTTL = time.Duration(n) * time.Hour
		}
	}

	app := &App{
		userRepo:            userRepo,
		movieRepo:           movieRepo,
		sessionRepo:         sessionRepo,
		allowDecimalRatings: allowDecimalRatings,
		sessionTTL:          sessionTTL,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server starting on :" + port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      app.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Fatal(server.ListenAndServe())
}

// router builds the full route table
func (app *App) router() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods("GET")

	// Public API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/signup", app.signupHandler).Methods("POST")
	api.HandleFunc("/login", app.loginHandler).Methods("POST")
	api.HandleFunc("/genres", genresHandler).Methods("GET")

	// Session-protected API routes
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(app.requireSession)
	protected.HandleFunc("/logout", app.logoutHandler).Methods("POST")
	protected.HandleFunc("/movies", app.listMoviesHandler).Methods("GET")
	protected.HandleFunc("/movies", app.createMovieHandler).Methods("POST")
	protected.HandleFunc("/movies/{id}", app.deleteMovieHandler).Methods("DELETE")
	protected.HandleFunc("/stats", app.statsHandler).Methods("GET")

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// genresHandler lists the selectable genres for the add-movie form
func genresHandler(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"genres": models.Genres,
	})
}

// requireSession resolves the bearer token to a user and rejects the
// request when it cannot. Handlers behind it can assume userFrom succeeds.
func (app *App) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "Authorization token is required")
			return
		}

		user, err := app.sessionRepo.GetUserByToken(token)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				respondError(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}
			log.Printf("Error resolving session: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func userFrom(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

func (app *App) signupHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, signupValidationMessage(err))
		return
	}

	// Check if user already exists
	if _, err := app.userRepo.GetByEmail(req.Email); err == nil {
		respondError(w, http.StatusBadRequest, "User with this email already exists")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Printf("Error checking existing user: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
	}

	if err := app.userRepo.Create(user); err != nil {
		log.Printf("Error creating user: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Printf("New user created: id=%d name=%s email=%s", user.ID, user.Name, user.Email)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}

func (app *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, loginValidationMessage(err))
		return
	}

	user, err := app.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("Error looking up user: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Plain string comparison against the stored clear-text password,
	// matching the system this replaces. See the data model notes.
	if user.Password != req.Password {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	session, err := app.sessionRepo.Create(user.ID, app.sessionTTL)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
		"token":   session.Token,
	})
}

func (app *App) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionRepo.Delete(bearerToken(r)); err != nil {
		log.Printf("Error deleting session: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out successfully",
	})
}

func (app *App) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	movies, err := app.movieRepo.GetByUserID(user.ID)
	if err != nil {
		log.Printf("Error getting movies: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"movies": movies,
		"count":  len(movies),
	})
}

func (app *App) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req models.CreateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, movieValidationMessage(err))
		return
	}

	if msg := app.checkRatingStep(req.Rating); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	watchDate, err := parseWatchDate(req.WatchDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid watch date format")
		return
	}

	movie := &models.Movie{
		Title:     strings.TrimSpace(req.Title),
		Genre:     req.Genre,
		Rating:    req.Rating,
		WatchDate: watchDate,
		ImageURL:  strings.TrimSpace(req.ImageURL),
		Notes:     strings.TrimSpace(req.Notes),
		UserID:    user.ID,
	}

	if err := app.movieRepo.Create(movie); err != nil {
		log.Printf("Error creating movie: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	movie.User = &models.MovieOwner{Name: user.Name}

	log.Printf("New movie added: id=%d title=%s genre=%s rating=%g user=%s",
		movie.ID, movie.Title, movie.Genre, movie.Rating, user.Name)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Movie added successfully",
		"movie":   movie,
	})
}

func (app *App) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	movieID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	if err := app.movieRepo.DeleteByOwner(movieID, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Movie not found or you do not have permission to delete it")
			return
		}
		log.Printf("Error deleting movie: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Printf("Movie deleted: id=%d user=%d", movieID, user.ID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Movie deleted successfully",
	})
}

func (app *App) statsHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	movies, err := app.movieRepo.GetByUserID(user.ID)
	if err != nil {
		log.Printf("Error getting movies for stats: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, models.StatsResponse{
		Stats:        services.ComputeStats(movies, time.Now()),
		RecentMovies: services.RecentMovies(movies),
	})
}

// checkRatingStep enforces the configured rating granularity: whole numbers
// by default, a single decimal place when decimal ratings are enabled.
func (app *App) checkRatingStep(rating float64) string {
	if app.allowDecimalRatings {
		if rating*10 != math.Trunc(rating*10) {
			return "Rating can have at most one decimal place"
		}
		return ""
	}
	if rating != math.Trunc(rating) {
		return "Rating must be a whole number between 1 and 10"
	}
	return ""
}

func parseWatchDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func signupValidationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request format"
	}
	e := ve[0]
	switch {
	case e.Tag() == "required":
		return "Name, email, and password are required"
	case e.Field() == "Email":
		return "Please provide a valid email address"
	case e.Field() == "Password":
		return "Password must be at least 6 characters long"
	}
	return "Invalid input data"
}

func loginValidationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request format"
	}
	e := ve[0]
	switch {
	case e.Tag() == "required":
		return "Email and password are required"
	case e.Field() == "Email":
		return "Please provide a valid email address"
	}
	return "Invalid input data"
}

func movieValidationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request format"
	}
	e := ve[0]
	switch {
	case e.Field() == "Genre" && e.Tag() == "oneof":
		return "Invalid genre. Please select from the available options."
	case e.Field() == "Rating" && (e.Tag() == "gte" || e.Tag() == "lte"):
		return "Rating must be a number between 1 and 10"
	case e.Tag() == "required":
		return "Title, genre, rating, and watch date are required"
	}
	return "Invalid input data"
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
