package main

import (
	"context"
	"log"

	"github.com/ayadas/cozyon-cli/internal/client/cli"
	"github.com/ayadas/cozyon-cli/internal/client/config"
	"github.com/ayadas/cozyon-cli/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	logger := logging.NewDefault(cfg.LogLevel)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
