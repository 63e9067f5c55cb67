package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/hirelens/hirelens/internal/ai"
	"github.com/hirelens/hirelens/internal/chunker"
	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/db"
	"github.com/hirelens/hirelens/internal/embedcache"
	"github.com/hirelens/hirelens/internal/filestore"
	"github.com/hirelens/hirelens/internal/handler"
	"github.com/hirelens/hirelens/internal/middleware"
	"github.com/hirelens/hirelens/internal/prompt"
	"github.com/hirelens/hirelens/internal/repo"
	"github.com/hirelens/hirelens/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "hirelens",
		Short: "hirelens resume search server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run hirelens server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("file_store", cfg.FileStore.Type),
	)

	resumeRepo := repo.NewResumeRepo(database)
	chunkIndexRepo := repo.NewChunkIndexRepo(database)
	embedCacheRepo := repo.NewEmbeddingCacheRepo(database)

	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedProvider, err := ai.NewEmbedProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init ai embed provider: %w", err)
	}

	embedder := ai.NewEmbedder(embedProvider, cfg.AI.EmbedModel)
	embedder = embedcache.WrapDBCacheToEmbedder(embedder, embedCacheRepo)
	embedder = embedcache.WrapLruCacheToEmbedder(embedder, 512, 30*time.Minute)
	manager := ai.NewManager(
		ai.NewGenerator(aiProvider, cfg.AI.Model),
		embedder,
		ai.ManagerConfig{
			Timeout:         cfg.AI.Timeout,
			MaxInputChars:   cfg.AI.MaxInputChars,
			EmbedDim:        cfg.AI.EmbedDim,
			Temperature:     cfg.Rag.Temperature,
			MaxOutputTokens: cfg.Rag.MaxOutputTokens,
		},
	)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	ingestService := service.NewIngestService(
		resumeRepo,
		chunkIndexRepo,
		manager,
		chunker.New(cfg.Rag.ChunkMaxChars),
		store,
	)
	queryService := service.NewQueryService(
		chunkIndexRepo,
		manager,
		manager,
		prompt.NewAssembler(cfg.Rag.ContextMaxChars),
		cfg.Rag,
	)

	deps := handler.RouterDeps{
		Resumes: handler.NewResumeHandler(ingestService),
		Query:   handler.NewQueryHandler(queryService),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
