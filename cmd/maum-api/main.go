package main

import (
	"context"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	httpadapter "github.com/maumlog/maum-api/internal/adapters/http"
	"github.com/maumlog/maum-api/internal/adapters/llm"
	firestorestore "github.com/maumlog/maum-api/internal/adapters/storage/firestore"
	memstore "github.com/maumlog/maum-api/internal/adapters/storage/memory"
	"github.com/maumlog/maum-api/internal/adapters/storage/redisauth"
	sqlitestore "github.com/maumlog/maum-api/internal/adapters/storage/sqlite"
	analysisapp "github.com/maumlog/maum-api/internal/app/analysis"
	consultapp "github.com/maumlog/maum-api/internal/app/consult"
	userapp "github.com/maumlog/maum-api/internal/app/user"
	"github.com/maumlog/maum-api/internal/config"
	"github.com/maumlog/maum-api/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Counselor capability: fake for dev, Gemini on GCP.
	var (
		counselor domain.Counselor
		analyzer  domain.Analyzer
		counselSv domain.CounselingGenerator
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using fake counselor")
		counselor = llm.NewFakeCounselor()
		analyzer = llm.NewFakeAnalyzer()
		counselSv = llm.NewFakeCounselingService()
	} else {
		log.Println("[LLM] Using Gemini counselor")
		client, err := llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation)
		if err != nil {
			log.Fatalf("error initializing Vertex AI client: %v", err)
		}
		counselor = llm.NewGeminiCounselor(client, cfg.ModelName)
		analyzer = llm.NewGeminiAnalyzer(client, cfg.ModelName)
		counselSv = llm.NewGeminiCounselingService(client, cfg.ModelName)
	}

	// Storage: memory, sqlite or firestore.
	var (
		consultRepo domain.ConsultRepository
		userRepo    domain.UserRepository
		historyRepo domain.AnalysisRepository
	)
	switch cfg.StorageBackend {
	case "firestore":
		if cfg.GCPProjectID == "" {
			log.Fatal("MAUM_GCP_PROJECT is required for the firestore storage backend")
		}
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		consultRepo = fsStore
		userRepo = fsStore.Users()
		historyRepo = memstore.NewAnalysisRepository()

	case "sqlite":
		log.Printf("[STORE] Using SQLite storage (path=%s)", cfg.SQLitePath)
		sqlStore, err := sqlitestore.NewStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("error initializing SQLite store: %v", err)
		}
		defer sqlStore.Close()
		consultRepo = sqlStore
		userRepo = sqlStore.Users()
		historyRepo = sqlStore.Histories()

	default:
		log.Println("[STORE] Using in-memory storage")
		consultRepo = memstore.NewConsultRepository()
		userRepo = memstore.NewUserRepository()
		historyRepo = memstore.NewAnalysisRepository()
	}

	// Auth session store: memory or redis.
	var authStore domain.AuthSessionStore
	switch cfg.AuthBackend {
	case "redis":
		log.Printf("[AUTH] Using Redis session store (addr=%s)", cfg.RedisAddr)
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		})
		authStore = redisauth.NewStore(rdb, cfg.SessionTTL)
	default:
		log.Println("[AUTH] Using in-memory session store")
		authStore = memstore.NewAuthSessionStore()
	}

	consultSvc := consultapp.NewService(counselor, consultRepo, userRepo)
	analysisSvc := analysisapp.NewService(analyzer, counselSv, historyRepo)
	userSvc := userapp.NewService(userRepo)

	handler := httpadapter.NewServer(consultSvc, analysisSvc, userSvc, authStore)

	addr := ":" + cfg.Port
	log.Println("maum-api listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
