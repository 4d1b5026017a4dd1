package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telco360/internal/clock"
	"github.com/smallbiznis/telco360/internal/config"
	"github.com/smallbiznis/telco360/internal/dashboard"
	"github.com/smallbiznis/telco360/internal/migration"
	"github.com/smallbiznis/telco360/internal/observability"
	"github.com/smallbiznis/telco360/internal/orders"
	"github.com/smallbiznis/telco360/internal/providers"
	"github.com/smallbiznis/telco360/internal/ratelimit"
	"github.com/smallbiznis/telco360/internal/server"
	"github.com/smallbiznis/telco360/internal/telco"
	"github.com/smallbiznis/telco360/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		config.ChurnModule,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,
		ratelimit.Module,

		// Functional Domains
		orders.Module,
		telco.Module,
		dashboard.Module,
		providers.Module,

		server.Module,
		fx.Invoke(func(s *server.Server) {
			s.RegisterOrdersRoutes()
			s.RegisterDashboardRoutes()
			s.RegisterFallback()
		}),
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
