package ledger

import "go.uber.org/fx"

// Module exposes the event ledger via Fx.
var Module = fx.Options(
	fx.Provide(New),
)
