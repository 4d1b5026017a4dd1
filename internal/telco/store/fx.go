package store

import (
	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/telco360/internal/config"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("telco.store",
	fx.Provide(provideStore),
	fx.Provide(provideLocker),
	fx.Provide(NewLoader),
)

type storeParams struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	DB     *gorm.DB        `optional:"true"`
	GenID  *snowflake.Node `optional:"true"`
}

func provideStore(p storeParams) (domain.Store, error) {
	if p.Config.Dashboard.Source == config.SourceDB {
		if p.DB == nil {
			return nil, errDBSourceWithoutDB
		}
		return NewGormStore(p.DB, p.GenID, p.Log), nil
	}
	return NewCSVStore(p.Config.Dashboard.DataDir, p.Log), nil
}

type lockerParams struct {
	fx.In

	Client *redis.Client `optional:"true"`
	Log    *zap.Logger
}

func provideLocker(p lockerParams) Locker {
	if p.Client == nil {
		return NewLocalLocker()
	}
	p.Log.Info("dataset regeneration lock uses redis")
	return NewRedisLocker(p.Client)
}
