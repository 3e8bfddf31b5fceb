package ticketform

import (
	"github.com/smallbiznis/crm/internal/ticketform/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ticketform.service",
	fx.Provide(service.New),
)
