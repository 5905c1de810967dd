package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdfchat/internal/api"
	"pdfchat/internal/config"
	"pdfchat/internal/db"
	"pdfchat/internal/embedding"
	"pdfchat/internal/index"
	"pdfchat/internal/llmservice"
	"pdfchat/internal/rag"
	"pdfchat/internal/session"
	"pdfchat/internal/storage"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	addr := flag.String("addr", "", "Listen address, overrides the config")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log.Debug().Interface("config", cfg).Msg("Loaded config")

	sessions, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing session store")
	}

	files, err := storage.NewFileStore(cfg.Storage.UploadDir, cfg.Storage.AllowedExtensions)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing file store")
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	idx, err := index.NewStore(cfg.Storage.IndexDir, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing index store")
	}

	generator, err := llmservice.NewOpenAIClient(&cfg.InferenceLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing LLM client")
	}
	caller := llmservice.NewCaller(generator, cfg.Retry.MaxAttempts, time.Duration(cfg.Retry.BaseDelaySeconds)*time.Second)

	svc := rag.NewService(cfg, sessions, files, idx, caller)
	router := api.NewRouter(svc, &cfg.Server)

	log.Info().Str("addr", cfg.Server.Addr).Msg("Starting PDF chat server")
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	if !cfg.Database.Enabled {
		return session.NewMemoryStore(), nil
	}

	dbClient, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	store := session.NewBunStore(db.NewDB(dbClient, cfg.Database.Debug))
	if err := store.Init(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}
