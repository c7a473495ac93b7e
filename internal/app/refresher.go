package app

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/UCgr8/needsites-public-sub000/internal/catalog"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

// Refresher keeps the advisory parts of the catalog honest: bundle counts
// are recomputed from actual listings and the static snapshot is reloaded
// from disk on a cron schedule.
type Refresher struct {
	bundleRepo domain.BundleRepository
	static     *catalog.Holder
	dataPath   string
	spec       string
	cron       *cron.Cron
}

func NewRefresher(bundleRepo domain.BundleRepository, static *catalog.Holder, dataPath, spec string) *Refresher {
	return &Refresher{
		bundleRepo: bundleRepo,
		static:     static,
		dataPath:   dataPath,
		spec:       spec,
		cron:       cron.New(),
	}
}

func (r *Refresher) Start() error {
	if _, err := r.cron.AddFunc(r.spec, r.Refresh); err != nil {
		return err
	}
	r.cron.Start()
	log.Printf("[Refresher] Started (%s)", r.spec)
	return nil
}

func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Println("[Refresher] Stopped")
}

// Refresh runs one pass. Failures are logged, never fatal; the next run
// tries again.
func (r *Refresher) Refresh() {
	if err := r.bundleRepo.RecountAll(); err != nil {
		log.Printf("[Refresher] Bundle recount failed: %v", err)
	}

	snapshot, err := catalog.LoadSnapshot(r.dataPath)
	if err != nil {
		log.Printf("[Refresher] Snapshot reload failed: %v", err)
		return
	}
	r.static.Set(snapshot)
	log.Printf("[Refresher] Snapshot reloaded (%d listings, %d bundles)", len(snapshot.Listings), len(snapshot.Bundles))
}
