package catalog

import (
	"github.com/smallbiznis/facturier/internal/catalog/repository"
	"github.com/smallbiznis/facturier/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.NewClients, repository.NewProducts),
	fx.Provide(service.New),
)
