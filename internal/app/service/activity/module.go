package activity

import "go.uber.org/fx"

// Module exposes the activity service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
