package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tableorder/broker"
	"tableorder/configs"
	"tableorder/routes"
	"tableorder/services"
	"tableorder/ws"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context, cfg *configs.Config) error {
	gin.SetMode(cfg.GinMode)

	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return err
	}
	if err := configs.SeedAdmin(db, cfg); err != nil {
		return err
	}

	var pub *broker.Publisher
	if cfg.RabbitMQURL != "" {
		if pub, err = broker.Dial(cfg.RabbitMQURL); err != nil {
			return err
		}
		defer pub.Close()
	}

	g, ctx := errgroup.WithContext(ctx)

	hub := ws.NewHub()
	g.Go(func() error { return hub.Run(ctx) })

	notify := services.MultiNotifier{hub}
	if pub != nil {
		notify = append(notify, pub)
		g.Go(func() error { return pub.Run(ctx) })
		slog.Info("mirroring events to rabbitmq", "exchange", broker.Exchange)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewEngine(routes.Deps{DB: db, Cfg: cfg, Hub: hub, Notify: notify}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr, "db", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
