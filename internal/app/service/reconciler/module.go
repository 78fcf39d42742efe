package reconciler

import "go.uber.org/fx"

// Module exposes the payment reconciler via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
