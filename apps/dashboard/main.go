package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telco360/internal/clock"
	"github.com/smallbiznis/telco360/internal/config"
	"github.com/smallbiznis/telco360/internal/dashboard"
	"github.com/smallbiznis/telco360/internal/migration"
	"github.com/smallbiznis/telco360/internal/observability"
	"github.com/smallbiznis/telco360/internal/providers"
	"github.com/smallbiznis/telco360/internal/ratelimit"
	"github.com/smallbiznis/telco360/internal/server"
	"github.com/smallbiznis/telco360/internal/telco"
	"github.com/smallbiznis/telco360/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		config.ChurnModule,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		datasetStorage(config.Load()),
		clock.Module,
		ratelimit.Module,

		telco.Module,
		dashboard.Module,
		providers.Module,

		server.Module,
		fx.Invoke(func(s *server.Server) {
			s.RegisterDashboardRoutes()
			s.RegisterFallback()
		}),
	)
	app.Run()
}

// datasetStorage only connects to the database when the dataset lives there.
// The CSV source runs without one.
func datasetStorage(cfg config.Config) fx.Option {
	if cfg.Dashboard.Source != config.SourceDB {
		return fx.Options()
	}
	return fx.Options(db.Module, migration.Module)
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
