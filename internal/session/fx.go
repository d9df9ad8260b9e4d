package session

import (
	"context"

	"go.uber.org/fx"
)

func registerHooks(lc fx.Lifecycle, s *Session) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Load(ctx)
		},
		OnStop: func(context.Context) error {
			s.Flush()
			return nil
		},
	})
}

var Module = fx.Module("session",
	fx.Provide(New),
	fx.Invoke(registerHooks),
)
