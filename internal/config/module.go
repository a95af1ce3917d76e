package config

import "go.uber.org/fx"

// Module loads the configuration and exposes its sections to the components
// that only need one of them.
var Module = fx.Options(
	fx.Provide(Load),
	fx.Provide(splitSections),
)

type sections struct {
	fx.Out

	Redis RedisConfig
	Queue QueueConfig
}

func splitSections(cfg *Config) sections {
	return sections{Redis: cfg.Redis, Queue: cfg.Queue}
}
