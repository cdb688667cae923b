package review

import "go.uber.org/fx"

// Module exposes the review service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
