package providers

import (
	"github.com/smallbiznis/telco360/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
