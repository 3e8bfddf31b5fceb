package csatsurvey

import (
	"github.com/smallbiznis/crm/internal/csatsurvey/service"
	"go.uber.org/fx"
)

var Module = fx.Module("csatsurvey.service",
	fx.Provide(service.New),
)
