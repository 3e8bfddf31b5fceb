package stagehistory

import (
	"github.com/smallbiznis/crm/internal/stagehistory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stagehistory.service",
	fx.Provide(service.New),
)
