package bootstrap

import (
	"rag-console/internal/config"
	"rag-console/internal/constant"
	"rag-console/internal/pkg/logger"
	"rag-console/internal/repository/memory"
	"rag-console/internal/service"
	"rag-console/pkg/answer"
	"rag-console/pkg/backend"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	Config     *config.Config
	Logger     logger.ILogger
	PubSub     *gochannel.GoChannel
	Sessions   *memory.SessionRepository
	Backend    backend.IClient
	Decomposer *answer.Decomposer

	QueryService service.IQueryService
	IndexService service.IIndexService
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	// Poll diagnostics are chatty; keep them off the console entirely.
	pollLogger := logger.NewIsolatedLogger(cfg.App.PollLogPath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(constant.AnswerEventTopic, pubSub)

	// 3. Infrastructure
	backendClient := backend.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	sessionRepo := memory.NewSessionRepository()

	// 4. Services
	queryService := service.NewQueryService(
		backendClient,
		sessionRepo,
		publisherService,
		pollLogger,
		cfg.Backend.PollBaseWait,
	)
	indexService := service.NewIndexService(backendClient, sysLogger)

	return &Container{
		Config:     cfg,
		Logger:     sysLogger,
		PubSub:     pubSub,
		Sessions:   sessionRepo,
		Backend:    backendClient,
		Decomposer: answer.NewDecomposer(),

		QueryService: queryService,
		IndexService: indexService,
	}
}
