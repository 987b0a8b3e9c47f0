package main

import (
	"flag"
	"log"
	"os"

	"github.com/ohowland/gridviz/internal/lib/source"
	"github.com/ohowland/gridviz/internal/pkg/config"
	"github.com/ohowland/gridviz/internal/pkg/dashboard"
	"github.com/ohowland/gridviz/internal/pkg/datastreams/natshandler"
	"github.com/ohowland/gridviz/internal/pkg/hmi"
	"github.com/ohowland/gridviz/internal/pkg/msg"
)

func main() {
	configPath := flag.String("config", "./config/gridviz.json", "path to the configuration file")
	remote := flag.Bool("remote", false, "query a running gridviz over NATS instead of loading the dataset")
	logPath := flag.String("log", "gridviz-hmi.log", "log file; the terminal belongs to the HMI")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("[Main] log: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	cfg, err := config.New(*configPath)
	if err != nil {
		log.Fatalf("[Main] config: %v", err)
	}

	var c msg.Clusterer
	if *remote {
		client, err := natshandler.Dial(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			log.Fatalf("[Main] nats: %v", err)
		}
		defer client.Close()
		c = client
	} else {
		ds, err := source.Extract(cfg.Source)
		if err != nil {
			log.Fatalf("[Main] load: %v", err)
		}
		state, err := dashboard.New(ds)
		if err != nil {
			log.Fatalf("[Main] build: %v", err)
		}
		c = state
	}

	if err := hmi.New(c).Run(); err != nil {
		log.Fatalf("[Main] hmi: %v", err)
	}
}
