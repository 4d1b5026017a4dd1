package dashboard

import (
	"github.com/smallbiznis/telco360/internal/telco/store"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard",
	fx.Provide(func(l *store.Loader) DatasetSource { return l }),
	fx.Provide(New),
)
