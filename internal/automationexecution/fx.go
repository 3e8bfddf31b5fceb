package automationexecution

import (
	"github.com/smallbiznis/crm/internal/automationexecution/service"
	"go.uber.org/fx"
)

var Module = fx.Module("automationexecution.service",
	fx.Provide(service.New),
)
