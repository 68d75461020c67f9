package cmd

import (
	"fmt"
	"time"

	"github.com/minisock/minisock/pkg/log"
	"github.com/minisock/minisock/pkg/transport/udp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() {
	App.Commands = append(App.Commands, Send)
}

var Send = &cli.Command{
	Name:  "send",
	Usage: "send datagrams to an IPv4 endpoint",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "loglevel",
			Aliases: []string{"ll"},
			Usage:   "log level (debug info warn error dpanic panic fatal)",
			Value:   "info",
		},
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "destination IPv4 address literal",
			Value:   "127.0.0.1",
		},
		&cli.UintFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "destination port",
			Value:   27072,
		},
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "payload to send",
			Value:   "ping",
		},
		&cli.UintFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "number of datagrams to send",
			Value:   1,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "send/receive timeout, 0 means blocking",
			Value:   0,
		},
	},
	Action: runSend,
}

func runSend(ctx *cli.Context) error {
	logger, err := log.SetupLogger(ctx.String("loglevel"))
	if err != nil {
		return err
	}

	table := udp.NewTable(logger)
	h, err := table.Open()
	if err != nil {
		return err
	}
	defer func() {
		if err := table.Close(h); err != nil {
			logger.Error("failed to close socket", zap.Error(err))
		}
	}()

	if timeout := ctx.Duration("timeout"); timeout > 0 {
		if err := table.SetTimeout(h, timeout); err != nil {
			return err
		}
	}

	addr := ctx.String("addr")
	port := uint16(ctx.Uint("port"))
	payload := []byte(ctx.String("data"))

	for i := uint(0); i < ctx.Uint("count"); i++ {
		start := time.Now()
		n, err := table.SendTo(h, payload, addr, port)
		if err != nil {
			return fmt.Errorf("send %d: %w", i, err)
		}
		logger.Info("datagram sent",
			zap.String("dest", fmt.Sprintf("%s:%d", addr, port)),
			zap.Int("bytes", n),
			zap.Duration("took", time.Since(start)),
		)
	}

	return nil
}
