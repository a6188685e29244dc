package main

import (
	"log"

	"netcafe/activity"
	"netcafe/api"
	"netcafe/config"
	"netcafe/handlers"
	"netcafe/web"
)

func main() {
	cfg := config.LoadConsole()

	store, err := activity.Open(cfg.ActivityDB)
	if err != nil {
		log.Fatal("[console] failed to open activity log: ", err)
	}
	defer store.Close()

	deps := &handlers.Deps{
		API:          api.New(cfg.APIBaseURL, api.WithTimeout(cfg.APITimeout)),
		Activity:     store,
		Templates:    web.Templates(),
		PollInterval: cfg.PollInterval,
	}
	r := handlers.NewRouter(deps, cfg.SessionSecret)

	log.Printf("[console] listening on %s, backend %s", cfg.ListenAddr, cfg.APIBaseURL)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal("[console] ", err)
	}
}
