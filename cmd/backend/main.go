package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"netcafe/agent"
	"netcafe/backend"
	"netcafe/config"
)

func main() {
	cfg := config.LoadBackend()

	db, err := backend.OpenDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("[backend] ", err)
	}
	if err := backend.Seed(db); err != nil {
		log.Fatal("[backend] failed to seed data: ", err)
	}

	billing := backend.NewBilling(db, agent.New(cfg.AgentPort))
	server := backend.Server{
		DB:          db,
		Tokens:      backend.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Billing:     billing,
		CORSOrigins: cfg.CORSOrigins,
	}
	if snapClient, coreClient := cfg.MidtransClients(); snapClient != nil {
		server.Gateway = &backend.Midtrans{Snap: snapClient, Core: coreClient}
		log.Println("[backend] online top-up enabled")
	} else {
		log.Println("[backend] MIDTRANS_SERVER_KEY not set, online top-up disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go backend.Sweep(ctx, billing, cfg.SweepInterval)

	if err := backend.Serve(ctx, cfg.Addr, backend.NewRouter(server)); err != nil {
		log.Fatal("[backend] ", err)
	}
}
