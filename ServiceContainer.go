package main

import (
	"log/slog"

	"github.com/NathanaelEastwood/SheetAI-sub000/contracts"
	"github.com/gin-gonic/gin"
	"go.etcd.io/bbolt"
)

type ServiceContainer struct {
	Config            Config
	Logger            *slog.Logger
	Database          *bbolt.DB
	ApiController     contracts.ApiController
	SheetRepository   contracts.SheetRepository
	WebhookDispatcher contracts.WebhookDispatcher
	Router            *gin.Engine
}

func BuildServiceContainer(config Config, logger *slog.Logger) (container ServiceContainer, err error) {
	container.Config = config
	container.Logger = logger

	container.Database, err = bbolt.Open(config.DatabaseFilepath, 0600, nil)
	if err != nil {
		return
	}

	serializer := NewCellBinarySerializer()
	canonicalizer := NewCanonicalizer()

	container.WebhookDispatcher = NewWebhookDispatcher(logger)
	container.SheetRepository = NewSheetRepository(
		container.Database, serializer, canonicalizer, container.WebhookDispatcher,
		logger,
		GridSize{Columns: config.GridColumns, Rows: config.GridRows},
		GridSize{Columns: config.MaxGridColumns, Rows: config.MaxGridRows},
	)
	container.ApiController = NewApiController(container.SheetRepository, container.WebhookDispatcher, canonicalizer)

	container.Router = SetupRouter(container.ApiController)

	return
}
