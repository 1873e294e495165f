package dispatch

import (
	"github.com/gitstate/gitstate/internal/gitexec"
	"github.com/gitstate/gitstate/internal/metrics"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"dispatch",
		logger.WithNamedLogger("dispatch"),
		fx.Provide(func(executor *gitexec.Executor, metrics *metrics.Metrics, logger *zap.Logger) *Dispatcher {
			return NewDispatcher(executor, metrics, logger, DefaultCommands()...)
		}),
	)
}
