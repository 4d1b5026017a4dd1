package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

type Provider interface {
	CustomerReport(ctx context.Context, report CustomerReport) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
