package notify

import "go.uber.org/fx"

// Module exposes the notification fan-out via Fx.
var Module = fx.Options(
	fx.Provide(New),
)
