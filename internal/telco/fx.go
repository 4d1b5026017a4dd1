package telco

import (
	"github.com/smallbiznis/telco360/internal/telco/generator"
	"github.com/smallbiznis/telco360/internal/telco/store"
	"go.uber.org/fx"
)

var Module = fx.Module("telco",
	fx.Provide(generator.New),
	store.Module,
)
