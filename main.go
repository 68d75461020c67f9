package main

import (
	"log"
	"os"

	"github.com/minisock/minisock/cmd"
)

func main() {
	if err := cmd.App.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
