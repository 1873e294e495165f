package config

import (
	"github.com/gitstate/gitstate/internal/gitexec"
	"github.com/gitstate/gitstate/pkg/badgerfx"
	"github.com/go-core-fx/fiberfx"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir:      cfg.Storage.DataDir,
				InMemory: cfg.Storage.InMemory,
			}
		}),
		fx.Provide(func(cfg Config) gitexec.Config {
			return gitexec.Config{
				Binary:  cfg.Git.Binary,
				Timeout: cfg.Git.Timeout,
			}
		}),
	)
}
