package chat

import "go.uber.org/fx"

// Module exposes the chat service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
