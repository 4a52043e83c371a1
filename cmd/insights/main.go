package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/influencerinsights/backend-go/internal/config"
	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/influencerinsights/backend-go/internal/engine"
	"github.com/influencerinsights/backend-go/internal/service"
	"github.com/influencerinsights/backend-go/internal/store"
	"github.com/influencerinsights/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// newServices builds the analysis service over the file-backed store, the
// same slot the server uses.
func newServices() (*service.AnalysisService, error) {
	cfg := config.Load()

	snapshots := store.NewFileSnapshots(cfg.Store.DataDir, cfg.Store.Slot)
	analysisStore := store.New(context.Background(), snapshots, cfg.Store.RecentLimit)

	engineClient := engine.NewClient(cfg.Analysis.APIBaseURL, time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second)
	return service.NewAnalysisService(engineClient, analysisStore, cfg.Analysis.DefaultVideoCount), nil
}

func runAnalyse(c *cli.Context) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	var fee, targetCPM, margin *float64
	if c.IsSet("fee") {
		v := c.Float64("fee")
		fee = &v
	}
	if c.IsSet("target-cpm") {
		v := c.Float64("target-cpm")
		targetCPM = &v
	}
	if c.IsSet("margin") {
		v := c.Float64("margin")
		margin = &v
	}

	rec, report, err := svc.Run(c.Context, domain.RunAnalysisRequest{
		YouTubeURL:      c.String("url"),
		VideoCount:      c.Int("videos"),
		ClientCurrency:  c.String("client-currency"),
		CreatorCurrency: c.String("creator-currency"),
		QuotedFeeClient: fee,
		TargetMarginPct: margin,
		TargetCPM:       targetCPM,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return printJSON(map[string]any{
		"analysis": rec,
		"report":   report,
	})
}

func runRecent(c *cli.Context) error {
	svc, err := newServices()
	if err != nil {
		return err
	}
	return printJSON(svc.Recent())
}

func runActive(c *cli.Context) error {
	svc, err := newServices()
	if err != nil {
		return err
	}
	rec, ok := svc.Active()
	if !ok {
		return fmt.Errorf("no active analysis")
	}
	return printJSON(rec)
}

func runClear(c *cli.Context) error {
	svc, err := newServices()
	if err != nil {
		return err
	}
	svc.Clear(c.Context)
	fmt.Println("store cleared")
	return nil
}

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id                  TEXT PRIMARY KEY,
	email               TEXT NOT NULL UNIQUE,
	password_hash       TEXT NOT NULL,
	name                TEXT NOT NULL,
	subscription_tier   TEXT NOT NULL DEFAULT 'free',
	subscription_status TEXT NOT NULL DEFAULT 'inactive',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`

func runMigrate(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(c.Context, usersSchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	fmt.Println("users table ready")
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	// Keep stdout clean for JSON output
	logger.SetOutput(os.Stderr)

	app := &cli.App{
		Name:  "insights",
		Usage: "Run creator analyses and inspect the local analysis store",
		Commands: []*cli.Command{
			{
				Name:  "analyse",
				Usage: "Run one analysis and save it as the active record",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Usage:    "YouTube channel or video link",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "videos",
						Usage: "Recent videos to analyse (1-25)",
						Value: 8,
					},
					&cli.StringFlag{
						Name:  "client-currency",
						Usage: "Client currency code",
						Value: "ZAR",
					},
					&cli.StringFlag{
						Name:  "creator-currency",
						Usage: "Creator currency code",
						Value: "ZAR",
					},
					&cli.Float64Flag{
						Name:  "fee",
						Usage: "Quoted fee in client currency",
					},
					&cli.Float64Flag{
						Name:  "margin",
						Usage: "Agency margin percent (0-100)",
					},
					&cli.Float64Flag{
						Name:  "target-cpm",
						Usage: "Target CPM in client currency",
					},
				},
				Action: runAnalyse,
			},
			{
				Name:   "recent",
				Usage:  "List stored analyses, most recent first",
				Action: runRecent,
			},
			{
				Name:   "active",
				Usage:  "Show the active analysis",
				Action: runActive,
			},
			{
				Name:   "clear",
				Usage:  "Reset the analysis store",
				Action: runClear,
			},
			{
				Name:  "migrate",
				Usage: "Create the users table for the credential store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
				},
				Action: runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
