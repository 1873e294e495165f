package sessions

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"sessions",
		logger.WithNamedLogger("sessions"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(NewGitAdapter, fx.Private),
		fx.Provide(NewService),
	)
}
