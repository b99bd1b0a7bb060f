package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Brick-Bastion/internal/config"
	"github.com/Garsondee/Brick-Bastion/internal/game"
	"github.com/Garsondee/Brick-Bastion/internal/sim"
	"github.com/Garsondee/Brick-Bastion/internal/spectate"
)

func main() {
	var configPath string
	var seed int64
	var spectateAddr string
	var verbose bool

	flag.StringVar(&configPath, "config", "", "YAML tuning file (defaults when empty)")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "RNG seed for the first round")
	flag.StringVar(&spectateAddr, "spectate", "", "serve a websocket spectator stream on this address, e.g. :8090")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "bastion"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	tu, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("load tuning", "err", err)
	}
	logger.Info("starting", "seed", seed, "config", configPath)

	d := sim.NewDirector(seed, sim.WithTuning(tu), sim.WithLogger(logger.WithPrefix("round")))
	opts := []game.Option{game.WithLogger(logger)}

	if spectateAddr != "" {
		hub := spectate.NewHub(logger.WithPrefix("spectate"))
		srv := &http.Server{Addr: spectateAddr, Handler: hub.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("spectator stream listening", "addr", spectateAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator stream stopped", "err", err)
			}
		}()
		defer func() {
			hub.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		opts = append(opts, game.WithPublisher(hub))
	}

	g := game.New(d, tu, opts...)
	w, h := g.WindowSize()
	ebiten.SetWindowTitle("Brick Bastion")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		logger.Error("game exited", "err", err)
	}
}
