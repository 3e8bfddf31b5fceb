package kbarticle

import (
	"github.com/smallbiznis/crm/internal/kbarticle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("kbarticle.service",
	fx.Provide(service.New),
)
