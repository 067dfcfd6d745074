package admin

import (
	"context"
	"time"

	"github.com/convoflow/crm-bridge-go/internal/metrics"
)

type instrumentedStore struct {
	next    Store
	backend string
	m       *metrics.Metrics
}

// WithMetrics records count and latency of every call to next.
func WithMetrics(next Store, backend string, m *metrics.Metrics) Store {
	return &instrumentedStore{next: next, backend: backend, m: m}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.m.StoreOps.WithLabelValues(s.backend, op, result).Inc()
	s.m.StoreDuration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore) SelectSingle(ctx context.Context, table string, match map[string]any, dest any) (err error) {
	start := time.Now()
	defer func() { s.observe("select_single", start, err) }()
	return s.next.SelectSingle(ctx, table, match, dest)
}

func (s *instrumentedStore) Insert(ctx context.Context, table string, data map[string]any) (err error) {
	start := time.Now()
	defer func() { s.observe("insert", start, err) }()
	return s.next.Insert(ctx, table, data)
}

func (s *instrumentedStore) InsertAndSelect(ctx context.Context, table string, data map[string]any, dest any) (err error) {
	start := time.Now()
	defer func() { s.observe("insert_select", start, err) }()
	return s.next.InsertAndSelect(ctx, table, data, dest)
}

func (s *instrumentedStore) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.observe("ping", start, err) }()
	return s.next.Ping(ctx)
}
