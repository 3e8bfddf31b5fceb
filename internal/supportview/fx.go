package supportview

import (
	"github.com/smallbiznis/crm/internal/supportview/service"
	"go.uber.org/fx"
)

var Module = fx.Module("supportview.service",
	fx.Provide(service.New),
)
