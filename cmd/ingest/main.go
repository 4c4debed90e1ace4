package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/pipeline"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/repository/postgres"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/sheets"
)

// ingest processes a moves CSV from the command line, writing the resulting
// tables straight to the spreadsheet. It covers scheduled loads and backfills
// without going through the HTTP API.
func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "ingest",
		Usage: "Process a moves CSV export and publish the dashboard tables",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "csv",
				Usage:    "Path to the moves CSV export",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "spreadsheet-id",
				Usage:    "Target spreadsheet ID",
				Required: true,
				EnvVars:  []string{"SPREADSHEET_ID"},
			},
			&cli.StringFlag{
				Name:     "credentials-file",
				Usage:    "Path to the service account JSON",
				Required: true,
				EnvVars:  []string{"GOOGLE_SERVICE_JSON"},
			},
			&cli.StringFlag{
				Name:    "db-url",
				Usage:   "Run-history database connection string (optional)",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Action: runIngest,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runIngest(c *cli.Context) error {
	ctx := c.Context

	csvPath := c.String("csv")
	content, err := os.ReadFile(csvPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", csvPath, err)
	}

	creds, err := os.ReadFile(c.String("credentials-file"))
	if err != nil {
		return fmt.Errorf("reading credentials: %w", err)
	}

	client, err := sheets.NewClient(ctx, creds, c.String("spreadsheet-id"))
	if err != nil {
		return err
	}

	runs, closeDB, err := openRunRepository(c.String("db-url"))
	if err != nil {
		return err
	}
	defer closeDB()

	run := recordStart(ctx, runs, filepath.Base(csvPath))

	result, err := pipeline.Run(bytes.NewReader(content))
	if err != nil {
		recordFailure(ctx, runs, run, err)
		return err
	}

	tables := &sheets.Tables{
		Pivot:        result.Pivot,
		MovesHistory: result.MovesHistory,
		Inbound:      result.Inbound,
		Outbound:     result.Outbound,
	}
	if err := client.SaveAll(ctx, tables); err != nil {
		recordFailure(ctx, runs, run, err)
		return fmt.Errorf("saving tables: %w", err)
	}

	recordSuccess(ctx, runs, run, result)

	log.Printf("ingested %s: %d raw rows, %d pivot rows, %d history rows",
		csvPath, result.RawRows, len(result.Pivot), len(result.MovesHistory))
	return nil
}

func openRunRepository(dbURL string) (*postgres.RunRepository, func(), error) {
	if dbURL == "" {
		return nil, func() {}, nil
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("pinging database: %w", err)
	}

	return postgres.NewRunRepository(db), func() { db.Close() }, nil
}

func recordStart(ctx context.Context, runs *postgres.RunRepository, source string) *postgres.PipelineRun {
	if runs == nil {
		return nil
	}
	run := &postgres.PipelineRun{
		Source:      source,
		TriggeredBy: "ingest-cli",
		Status:      postgres.RunStatusRunning,
		StartedAt:   time.Now(),
	}
	if err := runs.CreateRun(ctx, run); err != nil {
		log.Printf("warning: could not record pipeline run: %v", err)
		return nil
	}
	return run
}

func recordSuccess(ctx context.Context, runs *postgres.RunRepository, run *postgres.PipelineRun, result *pipeline.Result) {
	if runs == nil || run == nil {
		return
	}
	if err := runs.CompleteRun(ctx, run.ID, result.RawRows, result.LegRows, len(result.Pivot)); err != nil {
		log.Printf("warning: could not complete pipeline run: %v", err)
	}
}

func recordFailure(ctx context.Context, runs *postgres.RunRepository, run *postgres.PipelineRun, cause error) {
	if runs == nil || run == nil {
		return
	}
	if err := runs.FailRun(ctx, run.ID, cause.Error()); err != nil {
		log.Printf("warning: could not fail pipeline run: %v", err)
	}
}
