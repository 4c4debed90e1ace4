package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/cache"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/kpi"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/pipeline"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/repository/postgres"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/sheets"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/state"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/storage"
	"github.com/seriseptian210525/odoo-stock-dashboard/pkg/logger"
)

// ErrDataUnavailable is returned when no tables have been loaded yet, either
// because the spreadsheet is empty or startup could not reach it.
var ErrDataUnavailable = errors.New("dashboard data unavailable")

// DashboardService owns the full data lifecycle: loading the spreadsheet at
// startup, processing uploads through the pipeline, and serving the filtered
// views and KPI cards from the in-memory snapshot.
type DashboardService struct {
	sheets  *sheets.Client
	state   *state.AppState
	archive storage.UploadArchive
	runs    *postgres.RunRepository // nil when the run-history database is disabled
	cache   cache.KPICache

	archivePrefix string
}

func NewDashboardService(
	sheetsClient *sheets.Client,
	st *state.AppState,
	archive storage.UploadArchive,
	runs *postgres.RunRepository,
	kpiCache cache.KPICache,
	archivePrefix string,
) *DashboardService {
	if archive == nil {
		archive = storage.NoopArchive{}
	}
	if kpiCache == nil {
		kpiCache = cache.NewNoopKPICache()
	}
	return &DashboardService{
		sheets:        sheetsClient,
		state:         st,
		archive:       archive,
		runs:          runs,
		cache:         kpiCache,
		archivePrefix: archivePrefix,
	}
}

// LoadInitial reads the spreadsheet into the in-memory snapshot. An empty
// spreadsheet returns ErrDataUnavailable and leaves the state unloaded.
func (s *DashboardService) LoadInitial(ctx context.Context) error {
	tables, err := s.sheets.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading spreadsheet: %w", err)
	}

	if len(tables.Pivot) == 0 && len(tables.MovesHistory) == 0 {
		return ErrDataUnavailable
	}

	syncedAt := tables.UpdatedAt
	if syncedAt.IsZero() {
		syncedAt = time.Now()
	}
	s.state.Replace(state.Snapshot{
		Pivot:        tables.Pivot,
		MovesHistory: tables.MovesHistory,
		Inbound:      tables.Inbound,
		Outbound:     tables.Outbound,
		LastSyncedAt: syncedAt,
	})

	logger.Log.Info().
		Int("pivot_rows", len(tables.Pivot)).
		Int("moves_rows", len(tables.MovesHistory)).
		Msg("dashboard data loaded from spreadsheet")
	return nil
}

// Refresh re-reads the spreadsheet and invalidates the KPI cache.
func (s *DashboardService) Refresh(ctx context.Context) error {
	if err := s.LoadInitial(ctx); err != nil {
		return err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		logger.Log.Warn().Err(err).Msg("kpi cache invalidation failed")
	}
	return nil
}

// ProcessUpload runs the pipeline over an uploaded moves CSV, persists the
// resulting tables to the spreadsheet and publishes them to the in-memory
// snapshot. The snapshot is only replaced after the spreadsheet write
// succeeds, so readers never see tables that were not persisted.
func (s *DashboardService) ProcessUpload(ctx context.Context, filename string, content []byte, triggeredBy string) (*pipeline.Result, error) {
	run := s.startRun(ctx, filename, triggeredBy)

	s.archiveUpload(ctx, filename, content)

	result, err := pipeline.Run(bytes.NewReader(content))
	if err != nil {
		s.failRun(ctx, run, err)
		return nil, err
	}

	tables := &sheets.Tables{
		Pivot:        result.Pivot,
		MovesHistory: result.MovesHistory,
		Inbound:      result.Inbound,
		Outbound:     result.Outbound,
	}
	if err := s.sheets.SaveAll(ctx, tables); err != nil {
		s.failRun(ctx, run, err)
		return nil, fmt.Errorf("persisting tables: %w", err)
	}

	s.state.Replace(state.Snapshot{
		Pivot:        result.Pivot,
		MovesHistory: result.MovesHistory,
		Inbound:      result.Inbound,
		Outbound:     result.Outbound,
		LastSyncedAt: time.Now(),
	})

	if err := s.cache.InvalidateAll(ctx); err != nil {
		logger.Log.Warn().Err(err).Msg("kpi cache invalidation failed")
	}

	s.completeRun(ctx, run, result)

	logger.Log.Info().
		Str("file", filename).
		Int("raw_rows", result.RawRows).
		Int("pivot_rows", len(result.Pivot)).
		Msg("upload processed")
	return result, nil
}

func (s *DashboardService) startRun(ctx context.Context, filename, triggeredBy string) *postgres.PipelineRun {
	if s.runs == nil {
		return nil
	}
	run := &postgres.PipelineRun{
		Source:      filename,
		TriggeredBy: triggeredBy,
		Status:      postgres.RunStatusRunning,
		StartedAt:   time.Now(),
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		logger.Log.Warn().Err(err).Msg("could not record pipeline run")
		return nil
	}
	return run
}

func (s *DashboardService) completeRun(ctx context.Context, run *postgres.PipelineRun, result *pipeline.Result) {
	if run == nil {
		return
	}
	if err := s.runs.CompleteRun(ctx, run.ID, result.RawRows, result.LegRows, len(result.Pivot)); err != nil {
		logger.Log.Warn().Err(err).Int64("run_id", run.ID).Msg("could not complete pipeline run")
	}
}

func (s *DashboardService) failRun(ctx context.Context, run *postgres.PipelineRun, cause error) {
	if run == nil {
		return
	}
	if err := s.runs.FailRun(ctx, run.ID, cause.Error()); err != nil {
		logger.Log.Warn().Err(err).Int64("run_id", run.ID).Msg("could not fail pipeline run")
	}
}

// archiveUpload stores the raw upload for replay. Archiving is best effort: a
// storage failure must not block the run.
func (s *DashboardService) archiveUpload(ctx context.Context, filename string, content []byte) {
	key := fmt.Sprintf("%s/%s_%s", s.archivePrefix, time.Now().Format("20060102T150405"), filename)
	if err := s.archive.Put(ctx, key, bytes.NewReader(content), int64(len(content))); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("upload archiving failed")
	}
}

// Cards computes the five dashboard cards over the filtered log and pivot,
// with the reporting period merged into the filter's date bounds.
func (s *DashboardService) Cards(ctx context.Context, filter domain.Filter, period kpi.Period, customStart, customEnd *time.Time) (map[string]kpi.Card, string, error) {
	snap, loaded := s.state.Snapshot()
	if !loaded {
		return nil, "", ErrDataUnavailable
	}

	rng := kpi.ResolvePeriod(period, time.Now(), customStart, customEnd)
	if rng.Start != nil {
		filter.StartDate = rng.Start
	}
	if rng.End != nil {
		filter.EndDate = rng.End
	}

	if cards, ok, err := s.cache.GetCards(ctx, filter, period); err == nil && ok {
		return cards, rng.Label, nil
	} else if err != nil {
		logger.Log.Warn().Err(err).Msg("kpi cache get failed")
	}

	legs := domain.FilterLegs(snap.MovesHistory, filter)
	pivot := domain.FilterPivot(snap.Pivot, filter)
	cards := kpi.Cards(legs, pivot, rng.Start, rng.End)

	if err := s.cache.SetCards(ctx, filter, period, cards); err != nil {
		logger.Log.Warn().Err(err).Msg("kpi cache set failed")
	}

	return cards, rng.Label, nil
}

// Pivot returns the filtered replenishment pivot.
func (s *DashboardService) Pivot(filter domain.Filter) ([]domain.PivotRow, error) {
	snap, loaded := s.state.Snapshot()
	if !loaded {
		return nil, ErrDataUnavailable
	}
	return domain.FilterPivot(snap.Pivot, filter), nil
}

// Moves returns the filtered daily log.
func (s *DashboardService) Moves(filter domain.Filter) ([]domain.MoveLeg, error) {
	snap, loaded := s.state.Snapshot()
	if !loaded {
		return nil, ErrDataUnavailable
	}
	return domain.FilterLegs(snap.MovesHistory, filter), nil
}

// Inbound returns the filtered inbound projection of the daily log.
func (s *DashboardService) Inbound(filter domain.Filter) ([]domain.MoveLeg, error) {
	snap, loaded := s.state.Snapshot()
	if !loaded {
		return nil, ErrDataUnavailable
	}
	return domain.FilterLegs(snap.Inbound, filter), nil
}

// Outbound returns the filtered outbound projection of the daily log.
func (s *DashboardService) Outbound(filter domain.Filter) ([]domain.MoveLeg, error) {
	snap, loaded := s.state.Snapshot()
	if !loaded {
		return nil, ErrDataUnavailable
	}
	return domain.FilterLegs(snap.Outbound, filter), nil
}

// Status reports whether data is loaded, when it was last synced, and the
// table sizes.
type Status struct {
	Loaded       bool      `json:"loaded"`
	LastSyncedAt time.Time `json:"lastSyncedAt,omitempty"`
	PivotRows    int       `json:"pivotRows"`
	MovesRows    int       `json:"movesRows"`
	InboundRows  int       `json:"inboundRows"`
	OutboundRows int       `json:"outboundRows"`
}

func (s *DashboardService) Status() Status {
	snap, loaded := s.state.Snapshot()
	if !loaded {
		return Status{}
	}
	return Status{
		Loaded:       true,
		LastSyncedAt: snap.LastSyncedAt,
		PivotRows:    len(snap.Pivot),
		MovesRows:    len(snap.MovesHistory),
		InboundRows:  len(snap.Inbound),
		OutboundRows: len(snap.Outbound),
	}
}

// FilterOptions derives the distinct values for each filterable column from
// the current daily log, sorted ascending.
func (s *DashboardService) FilterOptions() (domain.FilterOptions, error) {
	snap, loaded := s.state.Snapshot()
	if !loaded {
		return domain.FilterOptions{}, ErrDataUnavailable
	}

	categories := make(map[string]struct{})
	locations := make(map[string]struct{})
	statuses := make(map[string]struct{})
	skus := make(map[string]struct{})
	skuNames := make(map[string]struct{})
	creators := make(map[string]struct{})
	references := make(map[string]struct{})

	for _, leg := range snap.MovesHistory {
		categories[string(leg.LocationCategory)] = struct{}{}
		locations[leg.Location] = struct{}{}
		statuses[string(leg.StatusReplenishment)] = struct{}{}
		skus[leg.SKU] = struct{}{}
		skuNames[leg.SKUName] = struct{}{}
		if leg.CreatedBy != "" {
			creators[leg.CreatedBy] = struct{}{}
		}
		if leg.Reference != "" {
			references[leg.Reference] = struct{}{}
		}
	}

	return domain.FilterOptions{
		Categories: sortedKeys(categories),
		Locations:  sortedKeys(locations),
		Statuses:   sortedKeys(statuses),
		SKUs:       sortedKeys(skus),
		SKUNames:   sortedKeys(skuNames),
		CreatedBy:  sortedKeys(creators),
		References: sortedKeys(references),
	}, nil
}

// RecentRuns returns the latest pipeline run records, or nil when run history
// is disabled.
func (s *DashboardService) RecentRuns(ctx context.Context, limit int) ([]*postgres.PipelineRun, error) {
	if s.runs == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.runs.RecentRuns(ctx, limit)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
