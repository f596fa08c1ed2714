package main

import (
	"log/slog"
	"time"

	"github.com/LancasterAlexUofU/sheet/contracts"
	"github.com/gin-gonic/gin"
	"go.etcd.io/bbolt"
)

type ServiceContainer struct {
	Database          *bbolt.DB
	ApiController     contracts.ApiController
	SheetRepository   contracts.SheetRepository
	WebhookDispatcher contracts.WebhookDispatcher
	Router            *gin.Engine
}

func BuildServiceContainer(config Config, logger *slog.Logger) (container ServiceContainer, err error) {
	container.Database, err = bbolt.Open(config.DatabaseFilepath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return
	}

	serializer := NewCellBinarySerializer()

	container.WebhookDispatcher = NewWebhookDispatcher(config.WebhookWorkers, logger)
	container.SheetRepository, err = NewSheetRepository(container.Database, serializer, container.WebhookDispatcher, config.SheetCacheSize, logger)
	if err != nil {
		_ = container.Database.Close()
		return
	}

	container.ApiController = NewApiController(container.SheetRepository, container.WebhookDispatcher)
	container.Router = SetupRouter(container.ApiController)

	return
}
