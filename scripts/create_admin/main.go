package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	dbfs "github.com/garnizeh/outreach/db"
	"github.com/garnizeh/outreach/internal/admin"
	"github.com/garnizeh/outreach/internal/auth"
	"github.com/garnizeh/outreach/internal/config"
	"github.com/garnizeh/outreach/internal/db"
	"github.com/garnizeh/outreach/internal/repository/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config file] <username> <password>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(2)
	}
	username, password := flag.Arg(0), flag.Arg(1)

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

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	issuer := auth.NewTokenIssuer(cfg.TokenSecret(), cfg.TokenDuration)
	svc, err := admin.NewService(sqlite.New(database, nil), issuer, cfg.Auth.BcryptCost, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Admin service error: %v\n", err)
		os.Exit(1)
	}

	if _, err := svc.CreateAccount(ctx, username, password); err != nil {
		if errors.Is(err, admin.ErrUsernameTaken) {
			fmt.Printf("User %s already exists.\n", username)
			return
		}
		fmt.Fprintf(os.Stderr, "Create admin error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Admin user '%s' created successfully!\n", username)
}
