package llm

import "go.uber.org/fx"

// Module exposes the upstream client via Fx.
var Module = fx.Options(
	fx.Provide(NewClient),
)
