package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func TestBuildServiceContainer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := DefaultConfig()
	config.DatabaseFilepath = filepath.Join(t.TempDir(), "db.db")
	config.WebhookWorkers = 2

	serviceContainer, err := BuildServiceContainer(config, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	// check database
	assert.NotNil(t, serviceContainer.Database)
	assert.IsType(t, &bbolt.DB{}, serviceContainer.Database)
	defer serviceContainer.Database.Close()

	// check webhook dispatcher
	assert.IsType(t, &WebhookDispatcher{}, serviceContainer.WebhookDispatcher)
	webhookDispatcher := serviceContainer.WebhookDispatcher.(*WebhookDispatcher)
	assert.Equal(t, 2, webhookDispatcher.workersCount)

	// check sheet repository
	assert.IsType(t, &SheetRepository{}, serviceContainer.SheetRepository)

	sheetRepository := serviceContainer.SheetRepository.(*SheetRepository)
	assert.Equal(t, serviceContainer.Database, sheetRepository.db)
	assert.Equal(t, serviceContainer.WebhookDispatcher, sheetRepository.webhookDispatcher)
	assert.IsType(t, &CellBinarySerializer{}, sheetRepository.serializer)

	// check api controller
	assert.IsType(t, &ApiController{}, serviceContainer.ApiController)

	apiController := serviceContainer.ApiController.(*ApiController)
	assert.Equal(t, serviceContainer.SheetRepository, apiController.SheetRepository)
	assert.Equal(t, serviceContainer.WebhookDispatcher, apiController.WebhookDispatcher)

	// check router
	assert.IsType(t, &gin.Engine{}, serviceContainer.Router)

	// 5 api routes + health check + metrics
	assert.Len(t, serviceContainer.Router.Routes(), 7)
}

func TestBuildServiceContainer_Errors(t *testing.T) {
	t.Run("missing database directory", func(t *testing.T) {
		config := DefaultConfig()
		config.DatabaseFilepath = filepath.Join(t.TempDir(), "missing", "db.db")

		_, err := BuildServiceContainer(config, slog.Default())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid cache size", func(t *testing.T) {
		config := DefaultConfig()
		config.DatabaseFilepath = filepath.Join(t.TempDir(), "db.db")
		config.SheetCacheSize = 0

		_, err := BuildServiceContainer(config, slog.Default())
		assert.Error(t, err)
	})
}
