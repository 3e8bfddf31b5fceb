package ticketslastate

import (
	"github.com/smallbiznis/crm/internal/ticketslastate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ticketslastate.service",
	fx.Provide(service.New),
)
