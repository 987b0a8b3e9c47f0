package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ohowland/gridviz/internal/lib/source"
	"github.com/ohowland/gridviz/internal/pkg/config"
	"github.com/ohowland/gridviz/internal/pkg/dashboard"
	"github.com/ohowland/gridviz/internal/pkg/datastreams/natshandler"
	"github.com/ohowland/gridviz/internal/pkg/webservice"
)

func main() {
	configPath := flag.String("config", "./config/gridviz.json", "path to the configuration file")
	flag.Parse()

	log.Println("[Main] Starting gridviz")
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	log.Println("[Main] Reading Configuration")
	cfg, err := config.New(*configPath)
	if err != nil {
		log.Fatalf("[Main] config: %v", err)
	}

	log.Println("[Main] Loading Dataset")
	ds, err := source.Extract(cfg.Source)
	if err != nil {
		log.Fatalf("[Main] load: %v", err)
	}

	log.Println("[Main] Building Dashboard")
	state, err := dashboard.New(ds)
	if err != nil {
		log.Fatalf("[Main] build: %v", err)
	}

	var nh *natshandler.Handler
	if cfg.NATS.Enable {
		log.Println("[Main] Connecting NATS Service")
		nh, err = launchNATS(cfg.NATS, state)
		if err != nil {
			log.Fatalf("[Main] nats: %v", err)
		}
	}

	app := webservice.New(state, cfg.Web.AllowedOrigins)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Println("[Main] Starting Server on Port", cfg.Web.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Main] server: %v", err)
		}
	}()

	<-sigs
	log.Println("[Main] Stopping system")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("[Main] shutdown:", err)
	}
	if nh != nil {
		nh.Stop()
	}
}

func launchNATS(cfg config.NATS, state *dashboard.State) (*natshandler.Handler, error) {
	h, err := natshandler.New(cfg.URL, cfg.Subject, state)
	if err != nil {
		return nil, err
	}
	go h.Process()
	if err := <-h.Ready(); err != nil {
		return nil, err
	}
	return &h, nil
}
