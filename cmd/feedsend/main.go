// feedsend publishes a sample price to a vendor feed and optionally tails the
// outbound topic.
// Usage: go run ./cmd/feedsend --config configs/pricingboard.example.yaml --vendor VendorX --instrument AAA --price 101.5 --tail
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rickgao/pricing-board/internal/broker"
	"github.com/rickgao/pricing-board/internal/config"
	"github.com/rickgao/pricing-board/internal/wire"
)

func main() {
	configPath := flag.String("config", "configs/pricingboard.example.yaml", "path to config file")
	vendor := flag.String("vendor", "VendorX", "vendor whose feed receives the message")
	instrument := flag.String("instrument", "AAA", "instrument id")
	ticker := flag.String("ticker", "", "ticker (default: <instrument>.T)")
	price := flag.String("price", "100.00", "price")
	tail := flag.Bool("tail", false, "print outbound messages after sending")
	filterVendor := flag.String("filter-vendor", "", "only print outbound messages from this vendor")
	filterInstrument := flag.String("filter-instrument", "", "only print outbound messages for this instrument")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Kafka.Mode != config.ModeKafka {
		logger.Error("feedsend needs kafka mode", "mode", cfg.Kafka.Mode)
		os.Exit(1)
	}

	topic := ""
	for _, f := range cfg.Kafka.Feeds {
		if f.Vendor == *vendor {
			topic = f.Topic
		}
	}
	if topic == "" {
		logger.Error("no feed configured for vendor", "vendor", *vendor)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kcfg := broker.DefaultKafkaConfig()
	kcfg.Brokers = cfg.Kafka.Brokers

	payload, err := samplePayload(*instrument, *ticker, *price)
	if err != nil {
		logger.Error("invalid sample", "error", err)
		os.Exit(1)
	}

	// A fresh group reading from the first offset replays the whole outbound
	// topic, so the update is seen whenever the first Fetch happens.
	var src *broker.KafkaSource
	if *tail {
		tailCfg := kcfg
		tailCfg.GroupID = "feedsend-" + uuid.NewString()
		src = broker.NewKafkaSource(tailCfg, cfg.Kafka.OutboundTopic, logger)
		defer src.Close()
	}

	pub := broker.NewKafkaPublisher(kcfg, logger)
	defer pub.Close()

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pub.Publish(sendCtx, broker.Message{Topic: topic, Key: []byte(*instrument), Value: payload}); err != nil {
		logger.Error("publish failed", "error", err)
		os.Exit(1)
	}
	logger.Info("sample sent", "topic", topic, "payload", string(payload))

	if src == nil {
		return
	}

	selector := broker.NewSelector(*filterVendor, *filterInstrument)
	logger.Info("tailing outbound", "topic", cfg.Kafka.OutboundTopic, "selector", selector.String())

	for {
		msg, err := src.Fetch(ctx)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, broker.ErrClosed) {
				logger.Error("fetch failed", "error", err)
			}
			return
		}
		if !selector.Matches(msg) {
			continue
		}

		var out wire.OutboundPricing
		if err := json.Unmarshal(msg.Value, &out); err != nil {
			logger.Warn("unreadable outbound message", "error", err)
			continue
		}
		fmt.Printf("%s %-10s %-10s %-10s %s\n",
			out.PriceTimestamp, out.VendorID, out.InstrumentID, out.Ticker, out.Price)
	}
}

func samplePayload(instrument, ticker, price string) ([]byte, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", price, err)
	}
	if ticker == "" {
		ticker = instrument + ".T"
	}
	ts := wire.NewDateTime(time.Now())

	return json.Marshal(wire.InboundPricing{
		InstrumentID:   &instrument,
		Ticker:         &ticker,
		Price:          &p,
		PriceTimestamp: &ts,
	})
}
