// Command orphan_sweep lists uploaded blobs that no media item references and,
// with -delete, removes them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/garnizeh/outreach/internal/config"
	"github.com/garnizeh/outreach/internal/db"
	"github.com/garnizeh/outreach/internal/gallery"
	"github.com/garnizeh/outreach/internal/repository/sqlite"
	"github.com/garnizeh/outreach/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	remove := flag.Bool("delete", false, "Remove orphaned blobs instead of only listing them")
	grace := flag.Duration("grace", 10*time.Minute, "Skip blobs written more recently than this")
	flag.Parse()

	ctx := context.Background()
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	dsn, err := cfg.DatabasePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Storage error: %v\n", err)
		os.Exit(1)
	}

	svc := gallery.NewService(sqlite.New(database, nil), store, nil)
	orphans, err := svc.Orphans(ctx, *grace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sweep error: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, name := range orphans {
		if !*remove {
			fmt.Println(name)
			continue
		}
		if err := store.Remove(name); err != nil {
			fmt.Fprintf(os.Stderr, "remove %s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Printf("removed %s\n", name)
	}

	fmt.Printf("%d orphaned blob(s) found in %s.\n", len(orphans), store.Dir())
	if failed > 0 {
		os.Exit(1)
	}
}
