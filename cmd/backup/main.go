package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"netcafe/backend"
	"netcafe/config"
	"netcafe/storage"
)

func main() {
	cfg := config.LoadBackup()

	db, err := backend.OpenDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("[backup] ", err)
	}

	name := fmt.Sprintf("netcafe-%s.sql", time.Now().Format("20060102-150405"))
	f, err := os.Create(name)
	if err != nil {
		log.Fatal("[backup] ", err)
	}
	w := bufio.NewWriter(f)
	if err := backend.Dump(db, w); err != nil {
		log.Fatal("[backup] dump failed: ", err)
	}
	if err := w.Flush(); err != nil {
		log.Fatal("[backup] ", err)
	}
	if err := f.Close(); err != nil {
		log.Fatal("[backup] ", err)
	}
	log.Printf("[backup] wrote %s", name)

	if cfg.B2KeyID == "" || cfg.B2AppKey == "" || cfg.B2Bucket == "" {
		log.Println("[backup] B2 credentials not set, keeping local file only")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	store, err := storage.Init(ctx, cfg.B2KeyID, cfg.B2AppKey, cfg.B2Bucket)
	if err != nil {
		log.Fatal("[backup] ", err)
	}
	src, err := os.Open(name)
	if err != nil {
		log.Fatal("[backup] ", err)
	}
	defer src.Close()
	url, err := store.Upload(ctx, "backups/"+name, src)
	if err != nil {
		log.Fatal("[backup] upload failed: ", err)
	}
	log.Printf("[backup] uploaded to %s", url)
}
