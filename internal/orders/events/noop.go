package events

import (
	"context"

	"github.com/smallbiznis/telco360/internal/orders/domain"
)

// Noop drops events. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, domain.Event) error { return nil }
