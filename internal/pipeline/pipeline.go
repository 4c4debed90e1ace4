// Package pipeline turns a raw Odoo moves export into the four dashboard
// tables: the replenishment pivot, the moves history log, and its inbound and
// outbound projections. The whole transform is a pure batch computation: it
// either produces a complete Result or fails without publishing anything.
package pipeline

import (
	"io"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

// Result carries the four output tables of one pipeline run.
type Result struct {
	Pivot        []domain.PivotRow
	MovesHistory []domain.MoveLeg
	Inbound      []domain.MoveLeg
	Outbound     []domain.MoveLeg

	RawRows int // retained "done" rows from the upload
	LegRows int // normalized legs before category filtering
}

// Run executes the full transform over a moves CSV. An empty file with a
// valid header yields a Result with four empty tables. The only error paths
// are a malformed or schema-invalid CSV.
func Run(r io.Reader) (*Result, error) {
	moves, err := ParseMoves(r)
	if err != nil {
		return nil, err
	}
	return RunMoves(moves), nil
}

// RunMoves executes the transform stages over already-parsed raw moves.
func RunMoves(moves []domain.RawMove) *Result {
	legs := Normalize(moves)
	legs = ComputeBalances(legs)

	agg := ComputeAggregateSOH(legs)
	usage := ComputeUsage(legs)

	pivot := BuildPivot(legs, usage, agg)
	history := BuildDailyLog(legs, usage)

	return &Result{
		Pivot:        pivot,
		MovesHistory: history,
		Inbound:      FilterByType(history, domain.MoveInbound),
		Outbound:     FilterByType(history, domain.MoveOutbound),
		RawRows:      len(moves),
		LegRows:      len(legs),
	}
}
