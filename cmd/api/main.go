package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"briefboard/internal/http/handlers"
	"briefboard/internal/http/httpapi"
	"briefboard/internal/infra"
	"briefboard/internal/prompts"
	"briefboard/internal/providers/bundle"
	"briefboard/internal/providers/genai"
	"briefboard/internal/providers/image"
	"briefboard/internal/providers/video"
	"briefboard/internal/storage"
	"briefboard/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	files, err := storage.NewFileStore(cfg.StaticDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare asset directory")
	}

	library, err := prompts.Load(cfg.PromptsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load prompt templates")
	}

	gemini, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gemini client")
	}

	var bundles bundle.Generator
	switch cfg.BundleProvider {
	case "openai":
		bundles, err = bundle.NewOpenAIGenerator(bundle.OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build openai generator")
		}
	default:
		bundles = bundle.NewGeminiGenerator(gemini, cfg.GeminiModel)
	}

	veo, err := video.NewClient(video.Options{
		APIKey:  cfg.VeoAPIKey,
		BaseURL: cfg.VeoBaseURL,
		Model:   cfg.VeoModel,
		Files:   files,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build veo client")
	}

	app := &handlers.App{
		Store:   store.NewMemory(),
		Bundles: bundles,
		Images:  image.NewGeminiGenerator(gemini, files, cfg.GeminiImageModel),
		Video:   veo,
		Files:   files,
		Prompts: library,
		Logger:  logger,
	}

	router := httpapi.NewRouter(app, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("bundle_provider", cfg.BundleProvider).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
