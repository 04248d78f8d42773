package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"brandforge/internal/branding"
	"brandforge/internal/http/handlers"
	"brandforge/internal/http/httpapi"
	"brandforge/internal/infra"
	"brandforge/internal/pipeline"
	"brandforge/internal/providers/genai"
	"brandforge/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize artifact storage")
	}

	client := genai.NewClient(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		TextModel:  cfg.GeminiTextModel,
		ImageModel: cfg.GeminiImageModel,
		VideoModel: cfg.GeminiVideoModel,
		Logger:     &logger,
	})

	fetcher := branding.NewFetcher(nil, &logger)
	poller := pipeline.NewJobPoller(pipeline.PollerOptions{
		Service:  client,
		Interval: time.Duration(cfg.VideoPollSeconds) * time.Second,
		MaxPolls: cfg.VideoMaxPolls,
		Logger:   &logger,
	})

	app := handlers.NewApp(logger)
	app.GeminiKey = cfg.GeminiAPIKey
	app.Analyzer = branding.NewAnalyzer(client, &logger)
	app.Logos = branding.NewLogoResolver(fetcher, &logger)
	app.Drafts = pipeline.NewDraftGenerator(client, &logger)
	app.Editor = pipeline.NewEditor(client, client, &logger)
	app.Finalizer = pipeline.NewFinalizer(client, store, &logger)
	app.Storyboard = pipeline.NewStoryboard(client, client, client, poller, &logger)

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
