// Package sheets persists the dashboard tables to a Google Spreadsheet. The
// spreadsheet is the system of record between runs: a pipeline run overwrites
// all four worksheets, and startup reads them back.
package sheets

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
	"github.com/seriseptian210525/odoo-stock-dashboard/pkg/logger"
)

const (
	SheetPivot    = "Pivot"
	SheetMoves    = "Moves History"
	SheetInbound  = "Inbound"
	SheetOutbound = "Outbound"

	defaultChunkRows = 2000
)

// Tables is the full spreadsheet content as domain rows.
type Tables struct {
	Pivot        []domain.PivotRow
	MovesHistory []domain.MoveLeg
	Inbound      []domain.MoveLeg
	Outbound     []domain.MoveLeg
	UpdatedAt    time.Time
}

// Client talks to one spreadsheet through the Sheets and Drive APIs.
type Client struct {
	svc   *sheetsapi.Service
	drive *drive.Service

	spreadsheetID string

	// Write pacing, tuned down in tests.
	chunkRows  int
	chunkDelay time.Duration
	sheetDelay time.Duration
	maxRetries int
}

// NewClient builds a client from a service-account credentials JSON blob.
func NewClient(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*Client, error) {
	cfg, err := google.JWTConfigFromJSON(credentialsJSON,
		sheetsapi.SpreadsheetsScope,
		drive.DriveReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing sheets credentials: %w", err)
	}

	httpClient := cfg.Client(ctx)

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return &Client{
		svc:           svc,
		drive:         driveSvc,
		spreadsheetID: spreadsheetID,
		chunkRows:     defaultChunkRows,
		chunkDelay:    1500 * time.Millisecond,
		sheetDelay:    2 * time.Second,
		maxRetries:    3,
	}, nil
}

// LoadAll reads the four worksheets concurrently, plus the spreadsheet's last
// modification time from Drive. A worksheet that does not exist yet reads as
// an empty table.
func (c *Client) LoadAll(ctx context.Context) (*Tables, error) {
	tables := &Tables{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		values, err := c.readSheet(gctx, SheetPivot)
		if err != nil {
			return err
		}
		tables.Pivot = ParsePivotValues(values)
		return nil
	})
	g.Go(func() error {
		values, err := c.readSheet(gctx, SheetMoves)
		if err != nil {
			return err
		}
		tables.MovesHistory = ParseMovesValues(values)
		return nil
	})
	g.Go(func() error {
		values, err := c.readSheet(gctx, SheetInbound)
		if err != nil {
			return err
		}
		tables.Inbound = ParseMovesValues(values)
		return nil
	})
	g.Go(func() error {
		values, err := c.readSheet(gctx, SheetOutbound)
		if err != nil {
			return err
		}
		tables.Outbound = ParseMovesValues(values)
		return nil
	})
	g.Go(func() error {
		updated, err := c.modifiedTime(gctx)
		if err != nil {
			// The modification time is informational only.
			logger.Log.Warn().Err(err).Msg("could not read spreadsheet modified time")
			return nil
		}
		tables.UpdatedAt = updated
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// SaveAll overwrites the four worksheets with the given tables, in a fixed
// order with pacing between writes to stay under the Sheets write quota.
func (c *Client) SaveAll(ctx context.Context, t *Tables) error {
	sheets := []struct {
		name   string
		values [][]interface{}
	}{
		{SheetPivot, PivotValues(t.Pivot)},
		{SheetMoves, MovesValues(t.MovesHistory)},
		{SheetInbound, MovesValues(t.Inbound)},
		{SheetOutbound, MovesValues(t.Outbound)},
	}

	for i, sheet := range sheets {
		if i > 0 {
			if err := sleepCtx(ctx, c.sheetDelay); err != nil {
				return err
			}
		}
		if err := c.writeSheet(ctx, sheet.name, sheet.values); err != nil {
			return fmt.Errorf("writing worksheet %q: %w", sheet.name, err)
		}
		logger.Log.Info().
			Str("worksheet", sheet.name).
			Int("rows", len(sheet.values)-1).
			Msg("worksheet saved")
	}
	return nil
}

func (c *Client) readSheet(ctx context.Context, name string) ([][]interface{}, error) {
	var resp *sheetsapi.ValueRange
	err := c.withRetry(ctx, func() error {
		var err error
		resp, err = c.svc.Spreadsheets.Values.Get(c.spreadsheetID, name).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", name, err)
	}
	return resp.Values, nil
}

// writeSheet clears the worksheet, then writes values in chunks. The first
// chunk replaces the sheet from A1; subsequent chunks append, with a delay in
// between so large histories do not trip the per-minute quota.
func (c *Client) writeSheet(ctx context.Context, name string, values [][]interface{}) error {
	err := c.withRetry(ctx, func() error {
		_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, name, &sheetsapi.ClearValuesRequest{}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("clearing: %w", err)
	}

	for start := 0; start < len(values); start += c.chunkRows {
		end := start + c.chunkRows
		if end > len(values) {
			end = len(values)
		}
		chunk := &sheetsapi.ValueRange{Values: values[start:end]}

		if start == 0 {
			err = c.withRetry(ctx, func() error {
				_, err := c.svc.Spreadsheets.Values.
					Update(c.spreadsheetID, name+"!A1", chunk).
					ValueInputOption("USER_ENTERED").
					Context(ctx).Do()
				return err
			})
		} else {
			err = c.withRetry(ctx, func() error {
				_, err := c.svc.Spreadsheets.Values.
					Append(c.spreadsheetID, name, chunk).
					ValueInputOption("USER_ENTERED").
					InsertDataOption("INSERT_ROWS").
					Context(ctx).Do()
				return err
			})
		}
		if err != nil {
			return fmt.Errorf("chunk at row %d: %w", start+1, err)
		}

		if end < len(values) {
			if err := sleepCtx(ctx, c.chunkDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Client) modifiedTime(ctx context.Context) (time.Time, error) {
	f, err := c.drive.Files.Get(c.spreadsheetID).Fields("modifiedTime").Context(ctx).Do()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, f.ModifiedTime)
}

// withRetry runs fn with exponential backoff. Sheets rate-limit errors are
// transient, so every failure is retried up to maxRetries.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var err error
	backoff := time.Second
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Log.Warn().Err(err).Int("attempt", attempt).Msg("retrying sheets call")
			if sleepErr := sleepCtx(ctx, backoff); sleepErr != nil {
				return sleepErr
			}
			backoff *= 2
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
