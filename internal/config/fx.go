package config

import (
	"github.com/smallbiznis/telco360/internal/churn"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

// ChurnModule provides the hot-reloaded churn rules as a churn.Source.
var ChurnModule = fx.Module("config.churn",
	fx.Provide(
		NewChurnRulesHolder,
		func(h *ChurnRulesHolder) churn.Source { return h },
	),
)
