package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/minisock/minisock/config"
	"github.com/minisock/minisock/pkg/controller"
	"github.com/minisock/minisock/pkg/listener"
	"github.com/minisock/minisock/pkg/log"
	"github.com/minisock/minisock/pkg/publisher"
	"github.com/minisock/minisock/pkg/sink"
	"github.com/minisock/minisock/pkg/transport/udp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() {
	App.Commands = append(App.Commands, Listen)
}

var Listen = &cli.Command{
	Name:  "listen",
	Usage: "receive datagrams and republish them to sinks",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file path",
			Value:   "",
		},
		&cli.StringFlag{
			Name:    "loglevel",
			Aliases: []string{"ll"},
			Usage:   "log level (debug info warn error dpanic panic fatal)",
			Value:   "",
		},
		&cli.UintFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "UDP port to listen on",
			Value:   0,
		},
		&cli.StringFlag{
			Name:  "topic",
			Usage: "topic received datagrams are published on",
			Value: "",
		},
		&cli.StringFlag{
			Name:    "metricsAddr",
			Aliases: []string{"m"},
			Usage:   "prometheus metrics listen address, empty disables",
			Value:   "",
		},
	},
	Action: runListen,
}

func runListen(ctx *cli.Context) error {
	c, err := applyConfig(ctx)
	if err != nil {
		return err
	}

	logger, err := log.SetupLogger(c.Loglevel)
	if err != nil {
		return err
	}

	sock, err := udp.NewSocket(logger, uint16(c.ListenPort))
	if err != nil {
		return err
	}

	pub := publisher.NewInMemoryPublisher(logger)

	runnables := []controller.Runnable{
		listener.NewListener(
			logger.With(zap.String("controller", "listener")),
			sock, pub, c.Topic,
		),
	}

	for _, sc := range c.Sinks {
		switch sc.Name {
		case "websocket":
			var wsCfg sink.WebSocketConfig
			if err := sc.LoadSinkConfig(&wsCfg); err != nil {
				return err
			}
			runnables = append(runnables, sink.NewWebSocketSink(
				logger.With(zap.String("controller", "websocket")),
				pub, c.Topic, wsCfg.Addr,
			))
		default:
			logger.Warn("unknown sink, skipping", zap.String("name", sc.Name))
		}
	}

	if c.MetricsAddr != "" {
		runnables = append(runnables, metricsServer(logger, c))
	}

	ctrl := controller.NewManager(
		logger.With(zap.String("controller", "manager")),
		runnables...,
	)
	return ctrl.Start(SetupSignalHandler())
}

type runnableFunc func(context.Context) error

func (f runnableFunc) Start(ctx context.Context) error { return f(ctx) }

func metricsServer(logger *zap.Logger, c *config.Config) controller.Runnable {
	return runnableFunc(func(ctx context.Context) error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: c.MetricsAddr, Handler: mux}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to shut down metrics server", zap.Error(err))
			}
		}()

		logger.Info("Starting metrics server", zap.String("addr", c.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}
