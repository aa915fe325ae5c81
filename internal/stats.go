package internal

import (
	"context"
	"sync/atomic"
	"time"
)

// Stats logs the tick and byte throughput of a stage once per interval.
// Intervals with no traffic are not logged.
type Stats struct {
	l *Logger

	interval time.Duration

	ticks atomic.Uint64
	bytes atomic.Uint64
}

func NewStats(l *Logger) *Stats {
	return &Stats{
		l: l,

		interval: time.Second,
	}
}

func (s *Stats) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ticks := s.ticks.Swap(0)
			bytes := s.bytes.Swap(0)

			if ticks == 0 && bytes == 0 {
				continue
			}

			s.l.Info("throughput", "ticks_per_sec", ticks, "bytes_per_sec", bytes)
		}
	}
}

func (s *Stats) AddTicks(n int) {
	s.ticks.Add(uint64(n))
}

func (s *Stats) AddBytes(n int) {
	s.bytes.Add(uint64(n))
}
