package service

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/telco360/internal/clock"
	obscontext "github.com/smallbiznis/telco360/internal/observability/context"
	"github.com/smallbiznis/telco360/internal/observability/metrics"
	"github.com/smallbiznis/telco360/internal/orders/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Repo      domain.Repository
	Publisher domain.EventPublisher
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	repo      domain.Repository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("orders.service"),
		clock:     p.Clock,
		repo:      p.Repo,
		publisher: p.Publisher,
		metrics:   p.Metrics,
	}
}

func (s *Service) Fetch(ctx context.Context, req domain.FetchRequest) (domain.FetchResponse, error) {
	if raw := strings.TrimSpace(req.OrderID); raw != "" {
		id, err := domain.ParseOrderID(raw)
		if err != nil {
			return domain.FetchResponse{}, err
		}
		item, err := s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.FetchResponse{}, err
		}
		resp := domain.FetchResponse{Orders: []domain.Order{}, Limit: req.Limit}
		if item != nil {
			resp.Orders = append(resp.Orders, *item)
		}
		return resp, nil
	}

	limit := req.Limit
	if limit == 0 {
		limit = domain.DefaultLimit
	}
	if limit < 1 || limit > domain.MaxLimit {
		return domain.FetchResponse{}, domain.ErrInvalidLimit
	}

	items, err := s.repo.List(ctx, s.db, limit)
	if err != nil {
		return domain.FetchResponse{}, err
	}
	if items == nil {
		items = []domain.Order{}
	}
	return domain.FetchResponse{Orders: items, Limit: limit}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Order, error) {
	if id <= 0 {
		return domain.Order{}, domain.ErrInvalidOrderID
	}
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Order{}, err
	}
	if item == nil {
		return domain.Order{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertRequest) (domain.Order, error) {
	order, err := s.buildOrder(req)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.repo.Upsert(ctx, s.db, &order); err != nil {
		s.log.Warn("upsert order failed", zap.Int64("order_id", order.OrderID), zap.Error(err))
		return domain.Order{}, err
	}

	channel := channelOrDefault(req.Channel)
	s.metrics.RecordOrderUpsert(ctx, channel)
	s.publish(ctx, domain.Event{
		Type:    domain.EventUpserted,
		OrderID: order.OrderID,
		Order:   &order,
		Channel: channel,
	})
	return order, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteRequest) (domain.DeleteResponse, error) {
	if req.OrderID <= 0 {
		return domain.DeleteResponse{}, domain.ErrInvalidOrderID
	}

	removed, err := s.repo.Delete(ctx, s.db, req.OrderID)
	if err != nil {
		s.log.Warn("delete order failed", zap.Int64("order_id", req.OrderID), zap.Error(err))
		return domain.DeleteResponse{}, err
	}

	channel := channelOrDefault(req.Channel)
	s.metrics.RecordOrderDelete(ctx, channel)
	if removed > 0 {
		s.publish(ctx, domain.Event{
			Type:    domain.EventDeleted,
			OrderID: req.OrderID,
			Channel: channel,
		})
	}
	return domain.DeleteResponse{OrderID: req.OrderID, Deleted: removed > 0}, nil
}

func (s *Service) buildOrder(req domain.UpsertRequest) (domain.Order, error) {
	if req.OrderID <= 0 {
		return domain.Order{}, domain.ErrInvalidOrderID
	}
	orderDate, err := domain.ParseOrderDate(req.OrderDate)
	if err != nil {
		return domain.Order{}, err
	}
	if req.Quantity < 0 {
		return domain.Order{}, domain.ErrInvalidQuantity
	}
	if req.TotalPrice < 0 {
		return domain.Order{}, domain.ErrInvalidTotalPrice
	}
	if req.UnitPrice < 0 {
		return domain.Order{}, domain.ErrInvalidUnitPrice
	}

	return domain.Order{
		OrderID:     req.OrderID,
		CustomerID:  strings.TrimSpace(req.CustomerID),
		MfgPlantID:  strings.TrimSpace(req.MfgPlantID),
		OrderDate:   orderDate,
		OrderStatus: strings.TrimSpace(req.OrderStatus),
		ProductID:   strings.TrimSpace(req.ProductID),
		Quantity:    req.Quantity,
		TotalPrice:  req.TotalPrice,
		UnitPrice:   req.UnitPrice,
	}, nil
}

// publish never fails the caller: the row is already committed.
func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = s.now()
	event.RequestID = obscontext.RequestIDFromContext(ctx)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("publish order event failed",
			zap.String("type", event.Type),
			zap.Int64("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}

func (s *Service) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock.Now()
}

func channelOrDefault(channel string) string {
	if channel == "" {
		return domain.ChannelAPI
	}
	return channel
}
