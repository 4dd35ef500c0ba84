package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"

	"review-insight/agents"
	"review-insight/config"
	"review-insight/database"
	"review-insight/handlers"
	"review-insight/orchestrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(cfg.Log.Level),
		TimeFormat: "15:04:05",
		Writer:     &log.ConsoleWriter{ColorOutput: log.IsTerminal(os.Stderr.Fd())},
	}
	logger := log.DefaultLogger

	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("database initialization failed")
	}
	store := database.NewStore(db)
	logger.Info().Str("path", cfg.Database.Path).Msg("database ready")

	// Core agents are constructed up front: ingestion depends on them.
	hfClient := agents.NewHFClient(cfg.HuggingFace, logger)
	classifier := agents.NewSentimentClassifier(hfClient, cfg.HuggingFace.SentimentModel, logger)
	scorer := agents.NewReviewScorer(hfClient, cfg.HuggingFace.ScoringModel, logger)

	textModel, err := agents.NewTextModel(cfg.LLM, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("text model initialization failed")
	}
	titler := agents.NewLLMTitleGenerator(textModel, logger)

	stage1 := orchestrator.NewStage1Pipeline(classifier, scorer, titler, store, logger)

	// Analytics agents are built lazily on the first analytics request and
	// shared afterwards.
	stage2Factory := func() (*orchestrator.Stage2Pipeline, error) {
		return orchestrator.NewStage2Pipeline(
			agents.NewLLMTagger(textModel, logger),
			agents.NewLLMSummarizer(textModel, logger),
			agents.NewLLMRecommender(textModel, logger),
			logger,
		), nil
	}

	orch := orchestrator.New(stage1, stage2Factory, logger)
	handler := handlers.New(store, orch, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	handler.Register(r)

	logger.Info().Str("addr", cfg.Server.Addr).Msg("starting review insight server")
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
