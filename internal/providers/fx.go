package providers

import (
	"github.com/smallbiznis/facturier/internal/providers/pdf"
	"go.uber.org/fx"
)

// Module groups the document output providers.
var Module = fx.Module("providers",
	pdf.Module,
)
