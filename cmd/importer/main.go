// Command importer runs one import and exits. The exit status is non-zero
// when the run failed or another run was already in progress.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/pictures-london/internal/app"
	"github.com/iliyamo/pictures-london/internal/config"
	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/service"
)

func main() {
	mode := flag.String("mode", "full", "import mode: full or changes")
	by := flag.String("triggered-by", "cli", "value recorded as the run's trigger")
	flag.Parse()

	kind, err := service.ParseRunType(*mode)
	if err != nil {
		log.Fatal(err)
	}

	cfg := config.Load()
	logger.Init(cfg.Env, cfg.LogDebug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger.Default())
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	run, err := a.Runner.Run(ctx, kind, *by)
	if err != nil {
		log.Fatal(err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(run)

	if !run.Success() {
		a.Close()
		os.Exit(1)
	}
}
