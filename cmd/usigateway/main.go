// Command usigateway запускает REST шлюз проверки USI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/usi_gateway.git/internal/app"
	"github.com/InQaaaaGit/usi_gateway.git/internal/buildinfo"
	"github.com/InQaaaaGit/usi_gateway.git/internal/config"
	"github.com/InQaaaaGit/usi_gateway.git/internal/server"
)

// Заполняются через -ldflags "-X main.buildVersion=..."
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	info := buildinfo.NewInfo(buildVersion, buildDate, buildCommit)
	info.Print(os.Stdout)

	cfg := server.InitConfig(nil)

	logger, cleanup := server.InitLogger(cfg)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, info); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// run собирает приложение и обслуживает запросы до отмены ctx
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, info buildinfo.Info) error {
	application, err := app.NewApp(cfg, logger, info)
	if err != nil {
		return err
	}

	fields := append(info.Fields(),
		zap.String("address", cfg.ServerAddress),
		zap.String("client_mode", cfg.ClientMode),
		zap.String("environment", cfg.Environment),
		zap.Bool("https", cfg.IsHTTPSEnabled()),
	)
	logger.Info("Starting USI gateway", fields...)

	return server.NewHTTPServer(application.GetServer(), cfg, logger).Run(ctx)
}
