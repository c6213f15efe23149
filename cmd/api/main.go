package main

import (
	"Amem/internal/api/config"
	"Amem/internal/pkg/cron"
	"Amem/internal/pkg/database"
	"Amem/internal/pkg/logger"
	"Amem/internal/pkg/mongo"
	"Amem/internal/pkg/redis"
	"Amem/internal/pkg/security"
	"Amem/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func fatal(msg string, err error) {
	log.Error("Fatal error: "+msg, "err", err)
	os.Exit(1)
}

func main() {
	if err := config.LoadConfig(); err != nil {
		fatal("load configuration", err)
	}
	cfg := config.Cfg

	logger.InitLogger(cfg.Logstash)
	security.InitJWT(cfg.JWT)
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	db, err := database.NewGormDB(&cfg.DB)
	if err != nil {
		fatal("connect database", err)
	}
	if err = redis.InitRedis(cfg.Redis); err != nil {
		fatal("connect redis", err)
	}
	defer func() { _ = redis.Close() }()

	// 未启用 MongoDB 时不提供站内通知
	var mdb *mongoDB.Database
	if cfg.Mongo.Enable {
		if mdb, err = mongo.InitMongo(cfg.Mongo); err != nil {
			fatal("connect mongo", err)
		}
	}

	app, err := wire.BuildApplication(db, mdb, cfg)
	if err != nil {
		fatal("build application", err)
	}
	defer func() { _ = app.Publisher.Close() }()

	if err = cron.InitCron(app.CronMgr); err != nil {
		fatal("start cron jobs", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, app, cfg.Server.Port); err != nil {
		log.Error("App exited with error", "err", err)
		return
	}
	log.Info("App exited")
}

// run 阻塞到收到退出信号或任一组件失败
func run(ctx context.Context, app *wire.ApplicationContainer, port int) error {
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if app.KafkaManager != nil {
		g.Go(func() error {
			return app.KafkaManager.Start(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")
		app.CronMgr.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
