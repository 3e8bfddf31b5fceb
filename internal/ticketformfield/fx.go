package ticketformfield

import (
	"github.com/smallbiznis/crm/internal/ticketformfield/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ticketformfield.service",
	fx.Provide(service.New),
)
