package credential

import "go.uber.org/fx"

// Module exposes the credential resolver via Fx.
var Module = fx.Options(
	fx.Provide(New),
)
