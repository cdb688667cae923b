package analyze

import "go.uber.org/fx"

// Module exposes the analyze service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
