package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/config"
	"github.com/smallbiznis/crm/internal/events"
	"github.com/smallbiznis/crm/internal/observability"
	"github.com/smallbiznis/crm/internal/server"
	"github.com/smallbiznis/crm/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		events.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
