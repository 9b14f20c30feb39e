package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fdg312/energy-hub/internal/advice"
	"github.com/fdg312/energy-hub/internal/auth"
	"github.com/fdg312/energy-hub/internal/blob"
	"github.com/fdg312/energy-hub/internal/config"
	"github.com/fdg312/energy-hub/internal/profiles"
	"github.com/fdg312/energy-hub/internal/reports"
	"github.com/fdg312/energy-hub/internal/scores"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/storage/memory"
	"github.com/fdg312/energy-hub/internal/storage/postgres"
	"github.com/fdg312/energy-hub/internal/weather"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	samples        storage.SamplesStorage
	scores         storage.ScoresStorage
	battery        storage.BatteryStorage
	rhythm         storage.RhythmStorage
	reports        storage.ReportsStorage
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.setStorage(memory.New())
		return
	}

	log.Println("Подключение к PostgreSQL...")
	ctx := context.Background()
	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.Printf("Ошибка подключения к PostgreSQL: %v", err)
		log.Println("Fallback на in-memory storage")
		s.setStorage(memory.New())
		return
	}

	log.Println("PostgreSQL подключен успешно")
	s.setStorage(pgStorage)
}

// fullStorage — и профили, и все дневные таблицы в одной реализации.
type fullStorage interface {
	storage.Storage
	storage.SamplesStorage
	storage.ScoresStorage
	storage.BatteryStorage
	storage.RhythmStorage
	storage.ReportsStorage
}

func (s *Server) setStorage(st fullStorage) {
	s.storage = st
	s.samples = st
	s.scores = st
	s.battery = st
	s.rhythm = st
	s.reports = st
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Profiles API
	profileService := profiles.NewService(s.storage)
	profileHandler := profiles.NewHandler(profileService)

	// GET /v1/profiles - list profiles of the current user
	s.mux.HandleFunc("GET /v1/profiles", profileHandler.HandleList)

	// POST /v1/profiles - create profile
	s.mux.HandleFunc("POST /v1/profiles", profileHandler.HandleCreate)

	// PATCH /v1/profiles/{id} - update name or mode
	s.mux.HandleFunc("PATCH /v1/profiles/{id}", profileHandler.HandleUpdate)

	// DELETE /v1/profiles/{id} - delete profile
	s.mux.HandleFunc("DELETE /v1/profiles/{id}", profileHandler.HandleDelete)

	// Scores & battery API
	weatherProvider := weather.NewProvider(s.config)
	scoresService := scores.NewService(
		s.config,
		s.storage,
		s.samples,
		s.scores,
		s.battery,
		s.rhythm,
		weatherProvider,
	)
	scoresHandler := scores.NewHandler(scoresService)

	// POST /v1/sync/samples - batch upsert of daily samples
	s.mux.HandleFunc("POST /v1/sync/samples", scoresHandler.HandleSyncSamples)

	// POST /v1/scores/compute - stateless scoring of submitted samples
	s.mux.HandleFunc("POST /v1/scores/compute", scoresHandler.HandleCompute)

	// GET /v1/scores/daily - scores of a day from stored history
	s.mux.HandleFunc("GET /v1/scores/daily", scoresHandler.HandleGetDaily)

	// POST /v1/battery/morning - compute and store the morning charge
	s.mux.HandleFunc("POST /v1/battery/morning", scoresHandler.HandleMorningBattery)

	// GET /v1/battery/current - battery level at read time
	s.mux.HandleFunc("GET /v1/battery/current", scoresHandler.HandleCurrentBattery)

	// Advice API
	adviceProvider := advice.NewProvider(s.config)
	adviceService := advice.NewService(s.config, s.storage, s.scores, s.battery, adviceProvider)
	adviceHandler := advice.NewHandler(adviceService)

	// GET /v1/advice/daily - daily advice built from the day snapshot
	s.mux.HandleFunc("GET /v1/advice/daily", adviceHandler.HandleDaily)

	// Reports API
	blobStore, blobMode, err := blob.NewBlobStore(s.config, log.Default())
	if err != nil {
		log.Fatalf("blob store initialization failed: %v", err)
	}
	log.Printf("Reports blob mode: %s", blobMode)

	reportsService := reports.NewService(
		s.reports,
		s.scores,
		s.battery,
		s.storage,
		blobStore,
		s.config.ReportsMaxRangeDays,
		s.config.S3.PresignTTL,
	)
	reportsHandler := reports.NewHandlers(reportsService)

	// POST /v1/reports - create report
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)

	// GET /v1/reports - list reports
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)

	// GET /v1/reports/{id}/download - download report
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)

	// DELETE /v1/reports/{id} - delete report
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Profiles API: http://localhost%s/v1/profiles\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
