package queue

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the queue client.
var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
}
