package cmd

import (
	"fmt"

	"github.com/minisock/minisock/pkg/log"
	"github.com/minisock/minisock/pkg/stunclient"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() {
	App.Commands = append(App.Commands, Probe)
}

var Probe = &cli.Command{
	Name:  "probe",
	Usage: "report the externally visible address via STUN",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "loglevel",
			Aliases: []string{"ll"},
			Usage:   "log level (debug info warn error dpanic panic fatal)",
			Value:   "info",
		},
		&cli.StringFlag{
			Name:    "stunServer",
			Aliases: []string{"ss"},
			Usage:   "stunServer",
			Value:   "stun:stun.easyvoip.com:3478",
		},
	},
	Action: runProbe,
}

func runProbe(ctx *cli.Context) error {
	logger, err := log.SetupLogger(ctx.String("loglevel"))
	if err != nil {
		return err
	}

	client, err := stunclient.NewClient(ctx.String("stunServer"))
	if err != nil {
		return err
	}
	defer client.Close()

	addr, err := client.ExternalAddr()
	if err != nil {
		return err
	}

	logger.Info("external address", zap.String("addr", addr.String()))
	fmt.Println(addr.String())
	return nil
}
