package supportmacro

import (
	"github.com/smallbiznis/crm/internal/supportmacro/service"
	"go.uber.org/fx"
)

var Module = fx.Module("supportmacro.service",
	fx.Provide(service.New),
)
