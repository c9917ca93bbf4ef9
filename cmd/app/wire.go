//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/glowedge/skincare-backend/internal/bootstrap"
	"github.com/glowedge/skincare-backend/internal/domain/catalog"
	"github.com/glowedge/skincare-backend/internal/domain/routine"
	"github.com/glowedge/skincare-backend/internal/domain/user"
	"github.com/glowedge/skincare-backend/internal/infra/config"
	httpiface "github.com/glowedge/skincare-backend/internal/interface/http"
	"github.com/glowedge/skincare-backend/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRoutineConfig,
		provideChatGPTClient,
		provideCompleter,
		provideTokenCounter,
		providePostgresPool,
		provideProductRepository,
		provideRoutineRepository,
		provideUserRepository,
		provideObjectStorage,
		provideJobQueue,
		provideRoutineJobQueue,
		provideProfileReader,
		user.NewService,
		routine.NewReconciler,
		routine.NewManager,
		routine.NewEngine,
		catalog.NewService,
		wire.Bind(new(catalog.RoutineMaintainer), new(*routine.Reconciler)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
