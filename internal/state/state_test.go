package state

import (
	"sync"
	"testing"
	"time"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

func TestSnapshotUnloadedByDefault(t *testing.T) {
	s := New()
	if s.Loaded() {
		t.Error("fresh state should not be loaded")
	}
	if _, loaded := s.Snapshot(); loaded {
		t.Error("fresh state should return loaded=false")
	}
}

func TestReplacePublishesWholesale(t *testing.T) {
	s := New()
	first := Snapshot{
		Pivot:        []domain.PivotRow{{SKU: "A"}},
		MovesHistory: []domain.MoveLeg{{SKU: "A"}},
		LastSyncedAt: time.Now(),
	}
	s.Replace(first)

	snap, loaded := s.Snapshot()
	if !loaded {
		t.Fatal("state should be loaded after Replace")
	}
	if len(snap.Pivot) != 1 || snap.Pivot[0].SKU != "A" {
		t.Errorf("snapshot pivot = %+v", snap.Pivot)
	}

	second := Snapshot{Pivot: []domain.PivotRow{{SKU: "B"}, {SKU: "C"}}}
	s.Replace(second)

	snap, _ = s.Snapshot()
	if len(snap.Pivot) != 2 {
		t.Errorf("replacement should be wholesale, got %d pivot rows", len(snap.Pivot))
	}
	if len(snap.MovesHistory) != 0 {
		t.Error("old moves history leaked into the new snapshot")
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Replace(Snapshot{Pivot: []domain.PivotRow{{SKU: "X"}}})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if snap, loaded := s.Snapshot(); loaded && len(snap.Pivot) != 1 {
					t.Error("observed a partial snapshot")
					return
				}
			}
		}()
	}
	wg.Wait()
}
