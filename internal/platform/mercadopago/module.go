package mercadopago

import (
	"go.uber.org/fx"

	"github.com/matriculahub/enroll/pkg/config"
)

// Module provides the provider client from config.
var Module = fx.Options(
	fx.Provide(func(cfg *config.Config) *Client {
		return New(cfg.MercadoPago.BaseURL)
	}),
)
