package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"taskboard/pkg/api"
	"taskboard/pkg/auth"
	"taskboard/pkg/config"
	"taskboard/pkg/db"
	"taskboard/pkg/store"
	"taskboard/pkg/version"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	a := api.New(
		store.NewGormStore(gdb),
		auth.NewManager(cfg.JWTSecret, cfg.TokenTTL),
		api.NewIPLimiter(cfg.LoginRate, cfg.LoginBurst),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("taskboard %s listening on %s (db=%s)", version.Version, cfg.Addr, cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
