package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/examprep/backend/internal/auth"
	"github.com/examprep/backend/internal/badges"
	"github.com/examprep/backend/internal/database"
	"github.com/examprep/backend/internal/ingest"
	"github.com/examprep/backend/internal/leaderboard"
	"github.com/examprep/backend/internal/middleware"
	"github.com/examprep/backend/internal/notify"
	"github.com/examprep/backend/internal/progress"
	"github.com/examprep/backend/internal/quiz"
	"github.com/examprep/backend/internal/tutor"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Quota days roll over in this zone, not in each user's local time.
	loc := time.UTC
	if tz := os.Getenv("QUOTA_TIMEZONE"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			log.Fatalf("Invalid QUOTA_TIMEZONE %q: %v", tz, err)
		}
	}

	// Stores and services
	progressStore := progress.NewStore(db, loc)
	quotaGate := progress.NewQuotaGate(loc)

	badgeAssigner := badges.NewAssigner(badges.NewPGStore(db))
	notifier := notify.NewLogNotifier()

	questionStore := quiz.NewStore(db)
	selector := quiz.NewSelector(progressStore)

	// Optional local question bank, used when the main store has no
	// questions for a topic.
	var fallback quiz.Source
	if path := os.Getenv("QUESTION_BANK_PATH"); path != "" {
		bank, err := quiz.OpenBank(path)
		if err != nil {
			log.Fatalf("Failed to open question bank: %v", err)
		}
		defer bank.Close()
		fallback = bank
		log.Printf("Question bank loaded from %s", path)
	}

	boardService := leaderboard.NewService(leaderboard.NewPGStore(db))

	sessionManager := quiz.NewManager(quiz.SessionDeps{
		Gate:        quotaGate,
		Progress:    progressStore,
		Selector:    selector,
		Primary:     questionStore,
		Fallback:    fallback,
		Leaderboard: boardService,
	})

	tutorService := tutor.NewService(tutor.NewClient())
	ingestService := ingest.NewService(ingest.NewHTTPOCRClient(), questionStore)

	// Handlers
	authHandler := auth.NewHandler(progressStore, badgeAssigner, notifier)
	progressHandler := progress.NewHandler(progressStore, quotaGate, badgeAssigner, notifier)
	quizHandler := quiz.NewHandler(sessionManager)
	boardHandler := leaderboard.NewHandler(boardService)
	tutorHandler := tutor.NewHandler(tutorService)
	ingestHandler := ingest.NewHandler(ingestService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	authHandler.RegisterRoutes(api)
	boardHandler.RegisterRoutes(api)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth)
	authHandler.RegisterProtectedRoutes(protected)
	progressHandler.RegisterRoutes(protected)
	quizHandler.RegisterRoutes(protected)
	tutorHandler.RegisterRoutes(protected)
	ingestHandler.RegisterRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
