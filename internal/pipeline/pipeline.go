package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/pricing-board/internal/broker"
	"github.com/rickgao/pricing-board/internal/model"
	"github.com/rickgao/pricing-board/internal/pricing"
	"github.com/rickgao/pricing-board/internal/wire"
)

// Registrar validates and stores records.
type Registrar interface {
	RegisterPricing(ctx context.Context, p model.Pricing) error
}

// Pipeline consumes vendor feeds and publishes accepted prices.
type Pipeline struct {
	cfg         Config
	enricher    *pricing.Enricher
	registrar   Registrar
	outbound    broker.Publisher
	deadLetters broker.Publisher
	recorder    Recorder
	logger      *slog.Logger

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.RWMutex
	stats Stats
}

// New creates a Pipeline. outbound receives accepted prices; deadLetters
// receives failed feed messages.
func New(cfg Config, enricher *pricing.Enricher, registrar Registrar, outbound, deadLetters broker.Publisher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if enricher == nil {
		enricher = pricing.NewEnricher(nil)
	}
	return &Pipeline{
		cfg:         cfg,
		enricher:    enricher,
		registrar:   registrar,
		outbound:    outbound,
		deadLetters: deadLetters,
		recorder:    nopRecorder{},
		logger:      logger,
	}
}

// SetRecorder installs an outcome observer. It must be called before Start.
func (p *Pipeline) SetRecorder(r Recorder) {
	if r != nil {
		p.recorder = r
	}
}

// Start launches one consumer per feed.
func (p *Pipeline) Start(ctx context.Context, feeds []Feed) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	g, gctx := errgroup.WithContext(p.ctx)
	for _, feed := range feeds {
		g.Go(func() error {
			return p.consume(gctx, feed)
		})
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := g.Wait(); err != nil {
			p.logger.Error("feed consumer exited", "error", err)
		}
	}()

	p.logger.Info("pricing pipeline started",
		"feeds", len(feeds),
		"outbound_topic", p.cfg.OutboundTopic,
		"dead_letter_topic", p.cfg.DeadLetterTopic,
	)

	return nil
}

// Stop waits for every feed consumer to exit.
func (p *Pipeline) Stop(ctx context.Context) error {
	p.logger.Info("stopping pricing pipeline")

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("pricing pipeline stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn("pricing pipeline stop timed out")
		return ctx.Err()
	}
}

// Stats returns current statistics.
func (p *Pipeline) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

// Process runs the canonical path for one inbound record and returns the
// stored record. Validation failures are returned as *pricing.InvalidPricingError.
// A record that was stored but could not be published stays stored.
func (p *Pipeline) Process(ctx context.Context, in wire.InboundPricing) (model.Pricing, error) {
	rec := p.enricher.Enrich(in.ToPricing())
	vendor := rec.VendorID.String()

	if err := p.registrar.RegisterPricing(ctx, rec); err != nil {
		var invalid *pricing.InvalidPricingError
		if errors.As(err, &invalid) {
			p.count(vendor, OutcomeRejected, func(s *Stats) { s.Rejected++ })
		} else {
			p.count(vendor, OutcomeFailed, func(s *Stats) { s.Failed++ })
		}
		return rec, err
	}

	if err := p.publish(ctx, rec); err != nil {
		p.count(vendor, OutcomeFailed, func(s *Stats) { s.Failed++ })
		return rec, err
	}

	p.count(vendor, OutcomePublished, func(s *Stats) { s.Published++ })
	return rec, nil
}

// publish projects rec and sends it with routing headers.
func (p *Pipeline) publish(ctx context.Context, rec model.Pricing) error {
	payload, err := json.Marshal(wire.FromPricing(rec))
	if err != nil {
		return fmt.Errorf("encode pricing %s: %w", rec.ID, err)
	}

	instrument := rec.InstrumentID.String()
	msg := broker.Message{
		Topic: p.cfg.OutboundTopic,
		Key:   []byte(instrument),
		Value: payload,
		Headers: map[string]string{
			broker.HeaderVendor:     rec.VendorID.String(),
			broker.HeaderInstrument: instrument,
		},
	}

	if err := p.outbound.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish pricing %s: %w", rec.ID, err)
	}
	return nil
}

// consume reads a feed until ctx ends or the source closes.
func (p *Pipeline) consume(ctx context.Context, feed Feed) error {
	logger := p.logger.With("vendor", string(feed.Vendor), "topic", feed.Topic)
	logger.Info("feed consumer started")
	defer logger.Info("feed consumer stopped")

	for {
		msg, err := feed.Source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, broker.ErrClosed) {
				return nil
			}
			logger.Warn("fetch failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.cfg.FetchBackoff):
			}
			continue
		}

		p.handle(ctx, feed, msg, logger)
	}
}

// handle processes one feed message and commits it once it has a final
// destination.
func (p *Pipeline) handle(ctx context.Context, feed Feed, msg broker.Message, logger *slog.Logger) {
	vendor := string(feed.Vendor)
	p.count(vendor, OutcomeReceived, func(s *Stats) { s.Received++ })

	in, err := wire.DecodeInbound(msg.Value)
	if err != nil {
		p.count(vendor, OutcomeFailed, func(s *Stats) { s.Failed++ })
	} else {
		_, err = p.Process(ctx, in.ForVendor(feed.Vendor))
	}

	if err != nil {
		if !p.deadLetterUntilDone(ctx, feed, msg, err, logger) {
			// Stopped before the message had a destination; it stays
			// uncommitted and is fetched again after a restart.
			return
		}
		p.count(vendor, OutcomeDeadLettered, func(s *Stats) { s.DeadLettered++ })
		logger.Error("pricing dead-lettered", "error", err, "offset", msg.Offset)
	}

	if err := feed.Source.Commit(ctx, msg); err != nil {
		logger.Warn("commit failed", "error", err, "offset", msg.Offset)
	}
}

// deadLetterUntilDone retries the dead-letter publish every FetchBackoff so
// the feed never moves past a message that has no destination. It reports
// false only when ctx ends first.
func (p *Pipeline) deadLetterUntilDone(ctx context.Context, feed Feed, msg broker.Message, cause error, logger *slog.Logger) bool {
	for attempt := 1; ; attempt++ {
		dlErr := p.deadLetter(ctx, feed, msg, cause)
		if dlErr == nil {
			return true
		}
		logger.Error("dead-letter publish failed",
			"error", cause,
			"dead_letter_error", dlErr,
			"attempt", attempt,
			"offset", msg.Offset,
		)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(p.cfg.FetchBackoff):
		}
	}
}

// deadLetter forwards the original message with the failure attached.
func (p *Pipeline) deadLetter(ctx context.Context, feed Feed, msg broker.Message, cause error) error {
	source := msg.Topic
	if source == "" {
		source = feed.Topic
	}

	dl := msg.WithHeaders(map[string]string{
		broker.HeaderError:  cause.Error(),
		broker.HeaderSource: source,
		broker.HeaderVendor: string(feed.Vendor),
	})
	dl.Topic = p.cfg.DeadLetterTopic

	return p.deadLetters.Publish(ctx, dl)
}

func (p *Pipeline) count(vendor, outcome string, update func(*Stats)) {
	p.mu.Lock()
	update(&p.stats)
	p.mu.Unlock()
	p.recorder.RecordMessage(vendor, outcome)
}
