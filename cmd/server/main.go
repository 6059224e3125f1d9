package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/learnpath/backend/internal/assessment"
	"github.com/learnpath/backend/internal/cache"
	"github.com/learnpath/backend/internal/config"
	"github.com/learnpath/backend/internal/database"
	"github.com/learnpath/backend/internal/generator"
	"github.com/learnpath/backend/internal/middleware"
	"github.com/learnpath/backend/internal/skills"
	"github.com/learnpath/backend/internal/storage"
	"github.com/learnpath/backend/internal/subjects"
	"github.com/learnpath/backend/internal/survey"
)

func main() {
	cfg := config.Load()

	// Subject catalog
	var catalog *subjects.Catalog
	var err error
	if cfg.SubjectsFile != "" {
		catalog, err = subjects.LoadFile(cfg.SubjectsFile)
	} else {
		catalog, err = subjects.LoadDefault()
	}
	if err != nil {
		log.Fatalf("Failed to load subjects: %v", err)
	}
	log.Printf("Loaded subjects: %v", catalog.Names())

	// Skill mirror
	skillStore, closeDB := openSkillStore(cfg)
	defer closeDB()

	docs, err := storage.NewDocumentStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open data dir: %v", err)
	}

	// Result cache
	var results cache.ResultCache = cache.NoopCache{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("WARN: redis at %s unreachable, caching disabled: %v", cfg.RedisAddr, err)
			rdb.Close()
		} else {
			results = cache.NewRedisResultCache(rdb, cfg.ResultCacheTTL)
			defer rdb.Close()
			log.Printf("Result cache using redis at %s (ttl %s)", cfg.RedisAddr, cfg.ResultCacheTTL)
		}
		cancel()
	}

	// Initialize services
	service := assessment.NewService(
		survey.NewGenerator(catalog),
		assessment.NewFileStore(docs),
		skillStore,
		results,
	)
	if gen := generator.NewGenerator(cfg); gen != nil {
		service.SetLLMGenerator(gen, cfg.LLMTimeout)
	}

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	assessment.NewHandler(service).RegisterRoutes(api)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	handler := middleware.Chain(c.Handler(r), middleware.RequestID, middleware.Logging)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// openSkillStore connects and migrates the relational skill mirror. The
// mirror is best effort, so an unreachable database disables it with a
// warning and the service keeps running on the JSON documents.
func openSkillStore(cfg config.Config) (assessment.SkillStore, func()) {
	db, err := database.Connect(cfg)
	if err != nil {
		log.Printf("WARN: database unavailable, skill mirror disabled: %v", err)
		return nil, func() {}
	}
	if err := database.Migrate(db); err != nil {
		log.Printf("WARN: migrations failed, skill mirror disabled: %v", err)
		db.Close()
		return nil, func() {}
	}
	return skills.NewStore(db, cfg.DBDriver), func() { db.Close() }
}
