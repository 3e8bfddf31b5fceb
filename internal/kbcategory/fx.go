package kbcategory

import (
	"github.com/smallbiznis/crm/internal/kbcategory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("kbcategory.service",
	fx.Provide(service.New),
)
