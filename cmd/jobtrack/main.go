package main

import (
	"log"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/ycliao/jobtrack/internal/config"
	"github.com/ycliao/jobtrack/internal/store"
	"github.com/ycliao/jobtrack/internal/web"
)

func main() {
	// 1. Define and parse command-line flags
	flags := pflag.NewFlagSet("jobtrack", pflag.ExitOnError)
	config.Flags(flags)
	flags.Parse(os.Args[1:])

	// 2. Assemble the configuration (defaults, file, env, flags)
	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 3. Open the data directory
	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open data directory: %v", err)
	}
	log.Printf("Data directory ready: %s", cfg.DataDir)

	// 4. Serve the web UI
	srv := web.NewServer(st, cfg)
	log.Printf("Listening on http://%s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
