// Command bspterm-mpu-collector collects the MPU board addresses of a Huawei
// NE5000E router and registers them as SSH sessions in the current session
// group.
//
// Run it from the host application's script panel while the focused terminal
// is connected to the router. It splits the pane to the right, scrapes
// `display device` for MPU slots, queries each slot's management address in
// diagnose mode, and adds one SSH session per reachable board.
package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	bspterm "github.com/bspterm/bspterm-go"
	"github.com/bspterm/bspterm-go/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	logger := logging.NewDevelopment()
	defer logger.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", zap.String("path", *configPath), zap.Error(err))
		os.Exit(1)
	}

	client, err := bspterm.New(bspterm.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create client", zap.Error(err))
		os.Exit(1)
	}
	defer client.Close()

	col := &collector{client: client, cfg: cfg, log: logger}
	if err := col.run(); err != nil {
		logger.Error("collection failed", zap.Error(err))
		os.Exit(1)
	}
}
