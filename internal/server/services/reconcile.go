package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/logging"
	"github.com/dmitrijs2005/photoalbum/internal/server/metrics"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/repomanager"
)

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	AlbumsScanned   int `json:"albumsScanned"`
	AlbumsRepaired  int `json:"albumsRepaired"`
	DanglingRemoved int `json:"danglingRemoved"`
	OrphansLinked   int `json:"orphansLinked"`
}

// Reconciler rebuilds every album photo list from the photos that reference
// the album. A pass over consistent data changes nothing, so it can run at
// any time and as often as needed. Passes never overlap.
type Reconciler struct {
	db          dbx.Provider
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	mu          sync.Mutex
}

func NewReconciler(db dbx.Provider, m repomanager.RepositoryManager, log logging.Logger) *Reconciler {
	return &Reconciler{db: db, repomanager: m, log: log.With("module", "reconcile")}
}

// Run performs one pass. Albums deleted while the pass runs are skipped.
func (r *Reconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, err := r.run(ctx)
	if err != nil {
		metrics.ReconcileRunsTotal.WithLabelValues("error").Inc()
		return report, err
	}
	metrics.ReconcileRunsTotal.WithLabelValues("ok").Inc()
	metrics.ReconcileRepairsTotal.WithLabelValues("dangling").Add(float64(report.DanglingRemoved))
	metrics.ReconcileRepairsTotal.WithLabelValues("orphan").Add(float64(report.OrphansLinked))
	return report, nil
}

func (r *Reconciler) run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	conn, err := r.db.Conn()
	if err != nil {
		return report, err
	}
	albumRepo := r.repomanager.Albums(conn)

	ids, err := albumRepo.ListIDs(ctx)
	if err != nil {
		return report, storeErr(r.db, err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		before, after, err := albumRepo.Rebuild(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			return report, storeErr(r.db, err)
		}
		report.AlbumsScanned++

		if slices.Equal(before, after) {
			continue
		}
		removed, linked := DiffPhotoLists(before, after)
		report.AlbumsRepaired++
		report.DanglingRemoved += len(removed)
		report.OrphansLinked += len(linked)
		r.log.Info(ctx, "album photo list repaired", "album_id", id,
			"removed", removed, "linked", linked)
	}

	return report, nil
}

// RunEvery runs a pass every interval until ctx ends. A non-positive
// interval disables it. Failed passes are logged and retried next tick.
func (r *Reconciler) RunEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		report, err := r.Run(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.log.Warn(ctx, "reconciliation failed", "error", err)
			}
			continue
		}
		r.log.Debug(ctx, "reconciliation done", "scanned", report.AlbumsScanned, "repaired", report.AlbumsRepaired)
	}
}

// DiffPhotoLists compares an album list before and after a rebuild. removed
// holds ids (or extra copies of ids) that were dropped; linked holds ids that
// were added.
func DiffPhotoLists(before, after []string) (removed, linked []string) {
	remaining := make(map[string]int, len(after))
	for _, id := range after {
		remaining[id]++
	}
	seen := make(map[string]bool, len(before))
	for _, id := range before {
		seen[id] = true
		if remaining[id] > 0 {
			remaining[id]--
			continue
		}
		removed = append(removed, id)
	}
	for _, id := range after {
		if !seen[id] {
			linked = append(linked, id)
		}
	}
	return removed, linked
}
