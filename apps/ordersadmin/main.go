package main

import (
	"github.com/smallbiznis/telco360/internal/clock"
	"github.com/smallbiznis/telco360/internal/config"
	"github.com/smallbiznis/telco360/internal/migration"
	"github.com/smallbiznis/telco360/internal/observability"
	"github.com/smallbiznis/telco360/internal/orders"
	"github.com/smallbiznis/telco360/internal/server"
	"github.com/smallbiznis/telco360/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
		clock.Module,

		orders.Module,

		server.Module,
		fx.Invoke(func(s *server.Server) {
			s.RegisterOrdersRoutes()
			s.RegisterFallback()
		}),
	)
	app.Run()
}
