package groupprofile

import (
	"github.com/smallbiznis/crm/internal/groupprofile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("groupprofile.service",
	fx.Provide(service.New),
)
