package inboundchannel

import (
	"github.com/smallbiznis/crm/internal/inboundchannel/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inboundchannel.service",
	fx.Provide(service.New),
)
