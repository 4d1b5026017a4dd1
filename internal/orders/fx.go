package orders

import (
	"context"

	"github.com/smallbiznis/telco360/internal/config"
	"github.com/smallbiznis/telco360/internal/orders/domain"
	"github.com/smallbiznis/telco360/internal/orders/events"
	"github.com/smallbiznis/telco360/internal/orders/repository"
	"github.com/smallbiznis/telco360/internal/orders/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("orders.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(providePublisher),
)

// providePublisher dials the broker only when ORDERS_AMQP_URL is set.
func providePublisher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (domain.EventPublisher, error) {
	if cfg.OrdersAMQPURL == "" {
		return events.Noop{}, nil
	}

	pub, err := events.Dial(cfg.OrdersAMQPURL, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	})
	log.Info("order events enabled", zap.String("exchange", events.Exchange))
	return pub, nil
}
