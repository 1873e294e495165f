package gitexec

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"gitexec",
		logger.WithNamedLogger("gitexec"),
		fx.Provide(NewExecutor),
	)
}
