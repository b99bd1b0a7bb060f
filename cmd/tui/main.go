package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Brick-Bastion/internal/config"
	"github.com/Garsondee/Brick-Bastion/internal/sim"
	"github.com/Garsondee/Brick-Bastion/internal/tui"
)

func main() {
	var configPath string
	var seed int64
	var modeName string
	var logPath string

	flag.StringVar(&configPath, "config", "", "YAML tuning file (defaults when empty)")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "RNG seed for the first round")
	flag.StringVar(&modeName, "mode", "single", "mode started by Enter: single, cooperative or versus")
	flag.StringVar(&logPath, "log", "", "append logs to this file (the terminal is busy drawing)")
	flag.Parse()

	logger := log.New(os.Stderr)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			logger.Fatal("open log", "path", logPath, "err", err)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "bastion"})
	}

	mode, err := sim.ParseMode(modeName)
	if err != nil {
		logger.Fatal("bad -mode", "err", err)
	}
	tu, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("load tuning", "err", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Fatal("open terminal", "err", err)
	}
	if err := screen.Init(); err != nil {
		logger.Fatal("init terminal", "err", err)
	}

	// From here on stderr would corrupt the screen.
	if logPath == "" {
		logger.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := sim.NewDirector(seed, sim.WithTuning(tu), sim.WithLogger(logger.WithPrefix("round")))
	app := tui.NewApp(screen, d, mode, logger)
	logger.Info("starting", "seed", seed, "mode", mode)
	runErr := app.Run(ctx)
	screen.Fini()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.New(os.Stderr).Error("terminal loop", "err", runErr)
	}
}
