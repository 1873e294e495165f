package internal

import (
	"context"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/gitstate/gitstate/internal/config"
	"github.com/gitstate/gitstate/internal/dispatch"
	"github.com/gitstate/gitstate/internal/git"
	"github.com/gitstate/gitstate/internal/gitexec"
	"github.com/gitstate/gitstate/internal/metrics"
	"github.com/gitstate/gitstate/internal/server"
	"github.com/gitstate/gitstate/internal/sessions"
	"github.com/gitstate/gitstate/pkg/badgerfx"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		badgerfx.Module(),
		healthfx.Module(),
		fiberfx.Module(),
		validator.Module,
		//
		// APP MODULES
		config.Module(),
		server.Module(),
		metrics.Module(),
		gitexec.Module(),
		git.Module(),
		//
		// BUSINESS MODULES
		fx.Provide(func() healthfx.Version { return healthfx.Version{Version: "0.1.0", ReleaseID: 1} }),
		sessions.Module(),
		dispatch.Module(),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, dispatcher *dispatch.Dispatcher, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("gitstate starting up", zap.Strings("commands", dispatcher.Commands()))
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("gitstate shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}
