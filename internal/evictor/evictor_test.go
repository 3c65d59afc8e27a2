package evictor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/pricing-board/internal/store"
)

type fakeTarget struct {
	calls atomic.Int32
}

func (f *fakeTarget) EvictEligible() store.EvictResult {
	f.calls.Add(1)
	return store.EvictResult{Records: 2, Buckets: 1}
}

type fakeObserver struct {
	records atomic.Int32
}

func (o *fakeObserver) RecordEviction(records int) { o.records.Add(int32(records)) }

func TestParseRunAt(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"00:00", 0, false},
		{"02:30", 2*time.Hour + 30*time.Minute, false},
		{"23:59", 23*time.Hour + 59*time.Minute, false},
		{"24:00", 0, true},
		{"noon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRunAt(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRunAt(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRunAt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNextRun(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name   string
		now    time.Time
		offset time.Duration
		want   time.Time
	}{
		{"midnight later today", time.Date(2024, 3, 1, 10, 0, 0, 0, loc), 0, time.Date(2024, 3, 2, 0, 0, 0, 0, loc)},
		{"exactly at run time", time.Date(2024, 3, 1, 0, 0, 0, 0, loc), 0, time.Date(2024, 3, 2, 0, 0, 0, 0, loc)},
		{"later today", time.Date(2024, 3, 1, 1, 0, 0, 0, loc), 2 * time.Hour, time.Date(2024, 3, 1, 2, 0, 0, 0, loc)},
		{"month rollover", time.Date(2024, 2, 29, 23, 0, 0, 0, loc), 0, time.Date(2024, 3, 1, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextRun(tt.now, tt.offset); !got.Equal(tt.want) {
				t.Errorf("NextRun = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvictor_RunOnce(t *testing.T) {
	target := &fakeTarget{}
	obs := &fakeObserver{}

	e, err := New(DefaultConfig(), target, obs, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := e.RunOnce()
	if res.Records != 2 {
		t.Errorf("Records = %d, want 2", res.Records)
	}
	if got := obs.records.Load(); got != 2 {
		t.Errorf("observer records = %d, want 2", got)
	}
	last, lastRes := e.LastRun()
	if last.IsZero() || lastRes.Buckets != 1 {
		t.Errorf("LastRun = %v, %+v", last, lastRes)
	}
}

func TestEvictor_RunOnStart(t *testing.T) {
	target := &fakeTarget{}
	e, err := New(Config{RunAt: "00:00", RunOnStart: true}, target, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for target.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := e.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}

	if got := target.calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestEvictor_FiresAtScheduledTime(t *testing.T) {
	target := &fakeTarget{}
	e, err := New(DefaultConfig(), target, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// A clock that reads 20ms before midnight when the test starts.
	base := time.Now()
	fake := time.Date(2024, 3, 1, 23, 59, 59, 980_000_000, time.Local)
	e.now = func() time.Time { return fake.Add(time.Since(base)) }

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for target.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if target.calls.Load() == 0 {
		t.Error("eviction did not run at the scheduled time")
	}
}

func TestNew_RejectsBadRunAt(t *testing.T) {
	if _, err := New(Config{RunAt: "25:00"}, &fakeTarget{}, nil, nil); err == nil {
		t.Error("expected an error for an invalid run_at")
	}
}
