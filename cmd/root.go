package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/minisock/minisock/config"
	"github.com/urfave/cli/v2"
)

var App = &cli.App{
	Name:     "minisock",
	Usage:    "UDP datagram toolkit: send, listen and probe",
	Version:  "0.1.0",
	Commands: []*cli.Command{},
}

var onlyOneSignalHandler = make(chan struct{})

// SetupSignalHandler registers for SIGTERM and SIGINT. A context is returned
// which is canceled on one of these signals. If a second signal is caught, the program
// is terminated with exit code 1.
func SetupSignalHandler() context.Context {
	close(onlyOneSignalHandler) // panics when called twice

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, shutdownSignals...)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1) // second signal. Exit directly.
	}()

	return ctx
}

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT}

func applyConfig(ctx *cli.Context) (cfg *config.Config, err error) {
	cfg = &config.Config{}
	if ctx.String("config") != "" {
		cfg, err = config.Load(ctx.String("config"))
		if err != nil {
			return nil, err
		}
	}

	// Command line flags override configuration file values
	if listenPort := ctx.Uint("port"); listenPort != 0 {
		cfg.ListenPort = listenPort
	}

	if topic := ctx.String("topic"); topic != "" {
		cfg.Topic = topic
	}

	if metricsAddr := ctx.String("metricsAddr"); metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}

	if logLevel := ctx.String("loglevel"); logLevel != "" {
		cfg.Loglevel = logLevel
	}

	if stunServer := ctx.String("stunServer"); stunServer != "" {
		cfg.StunServer = stunServer
	}

	if cfg.Loglevel == "" {
		cfg.Loglevel = "info"
	}
	if cfg.Topic == "" {
		cfg.Topic = "events"
	}

	return cfg, nil
}
