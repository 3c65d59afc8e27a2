package store

import (
	"hash/maphash"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/pricing-board/internal/model"
)

// Config holds store configuration.
type Config struct {
	RetentionDays int // Records dated before today minus this many days are evicted (default: 30)
	LockStripes   int // Number of per-pair lock stripes (default: 256)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RetentionDays: 30,
		LockStripes:   256,
	}
}

// Stats is a point-in-time view of the store.
type Stats struct {
	Instruments int `json:"instruments"`
	Vendors     int `json:"vendors"`
	Records     int `json:"records"`
	DateBuckets int `json:"date_buckets"`
}

// EvictResult reports what one eviction pass removed.
type EvictResult struct {
	Cutoff  model.Date
	Records int
	Buckets int
}

// InMemoryRepository is the dual-index price cache.
type InMemoryRepository struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	seed  maphash.Seed
	pairs []sync.Mutex

	byInstrument *keyIndex[model.InstrumentID, model.VendorID]
	byVendor     *keyIndex[model.VendorID, model.InstrumentID]
	byDate       *dateIndex
}

// NewInMemoryRepository creates an empty store.
func NewInMemoryRepository(cfg Config, logger *slog.Logger) *InMemoryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = DefaultConfig().RetentionDays
	}
	if cfg.LockStripes <= 0 {
		cfg.LockStripes = DefaultConfig().LockStripes
	}

	return &InMemoryRepository{
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		seed:         maphash.MakeSeed(),
		pairs:        make([]sync.Mutex, cfg.LockStripes),
		byInstrument: newKeyIndex[model.InstrumentID, model.VendorID](),
		byVendor:     newKeyIndex[model.VendorID, model.InstrumentID](),
		byDate:       newDateIndex(),
	}
}

// WithClock replaces the clock used to compute the eviction cutoff.
// It must be called before the store is shared.
func (r *InMemoryRepository) WithClock(now func() time.Time) *InMemoryRepository {
	r.now = now
	return r
}

// pairLock returns the stripe guarding (instrument, vendor).
func (r *InMemoryRepository) pairLock(instrument model.InstrumentID, vendor model.VendorID) *sync.Mutex {
	var h maphash.Hash
	h.SetSeed(r.seed)
	h.WriteString(string(instrument))
	h.WriteByte(0)
	h.WriteString(string(vendor))
	return &r.pairs[h.Sum64()%uint64(len(r.pairs))]
}

// Store makes p the current record for its pair. p must be valid.
func (r *InMemoryRepository) Store(p model.Pricing) {
	instrument, vendor := *p.InstrumentID, *p.VendorID

	mu := r.pairLock(instrument, vendor)
	mu.Lock()
	defer mu.Unlock()

	prevA, okA := r.byInstrument.put(instrument, vendor, p)
	prevB, okB := r.byVendor.put(vendor, instrument, p)
	r.byDate.add(p)

	if okA && !sameSlot(prevA, p) {
		r.byDate.remove(prevA)
	}
	if okB && !sameSlot(prevB, p) {
		r.byDate.remove(prevB)
	}
}

// sameSlot reports whether prev occupies the bucket entry p was just added
// to, in which case removing prev would drop p.
func sameSlot(prev, p model.Pricing) bool {
	return *prev.ID == *p.ID && prev.Date() == p.Date()
}

// AllByInstrument returns the current record of every vendor for id.
func (r *InMemoryRepository) AllByInstrument(id model.InstrumentID) []model.Pricing {
	return r.byInstrument.values(id)
}

// AllByVendor returns the current record of every instrument for id.
func (r *InMemoryRepository) AllByVendor(id model.VendorID) []model.Pricing {
	return r.byVendor.values(id)
}

// Cutoff returns the oldest date that survives eviction today.
func (r *InMemoryRepository) Cutoff() model.Date {
	return model.DateOf(r.now()).AddDays(-r.cfg.RetentionDays)
}

// EvictEligible drops every record dated strictly before the cutoff.
// A record is removed from a key index only if it is still the current one
// there, so a newer price stored concurrently survives.
func (r *InMemoryRepository) EvictEligible() EvictResult {
	res := EvictResult{Cutoff: r.Cutoff()}

	for date, members := range r.byDate.takeBefore(res.Cutoff) {
		res.Buckets++
		for _, p := range members {
			if r.evict(p) {
				res.Records++
			}
		}
		r.logger.Debug("evicted date bucket", "date", date.String(), "records", len(members))
	}

	return res
}

func (r *InMemoryRepository) evict(p model.Pricing) bool {
	instrument, vendor := *p.InstrumentID, *p.VendorID

	mu := r.pairLock(instrument, vendor)
	mu.Lock()
	defer mu.Unlock()

	a := r.byInstrument.removeIfEqual(instrument, vendor, p)
	b := r.byVendor.removeIfEqual(vendor, instrument, p)
	return a || b
}

// Buckets returns the dates currently held in the eviction index, oldest first.
func (r *InMemoryRepository) Buckets() []model.Date {
	return r.byDate.dates()
}

// Stats returns current counts.
func (r *InMemoryRepository) Stats() Stats {
	instruments, records := r.byInstrument.counts()
	vendors, _ := r.byVendor.counts()
	buckets, _ := r.byDate.size()
	return Stats{
		Instruments: instruments,
		Vendors:     vendors,
		Records:     records,
		DateBuckets: buckets,
	}
}
