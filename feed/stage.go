package feed

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strings"
	"sync/atomic"
	"time"

	"github.com/quantfold/tickstream/internal"
	"go.opentelemetry.io/otel/attribute"
)

// Stage listens for UDP tick datagrams and pushes each parsed tick into the
// per-symbol window registry. One datagram carries one or more newline
// separated tick lines.
type Stage struct {
	tel *internal.Telemetry

	cfg *Config
	reg *Registry

	conn  *net.UDPConn
	stats *internal.Stats

	// Telemetry metrics
	receivedDatagrams atomic.Int64
	receivedTicks     atomic.Int64
	parseErrors       atomic.Int64
}

func NewStage(reg *Registry, cfg *Config) *Stage {
	tel := internal.NewTelemetry("feed", "udp")

	return &Stage{
		tel: tel,

		cfg: cfg,
		reg: reg,

		stats: internal.NewStats(tel.Logger()),
	}
}

func (s *Stage) Init(_ context.Context) error {
	parsedAddr, err := netip.ParseAddr(s.cfg.IPAddr)
	if err != nil {
		return err
	}

	addr := net.UDPAddrFromAddrPort(netip.AddrPortFrom(parsedAddr, s.cfg.Port))
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return err
	}

	s.conn = conn

	s.initMetrics()

	return nil
}

func (s *Stage) initMetrics() {
	s.tel.NewCounter("received_datagrams", func() int64 { return s.receivedDatagrams.Load() })
	s.tel.NewCounter("received_ticks", func() int64 { return s.receivedTicks.Load() })
	s.tel.NewCounter("parse_errors", func() int64 { return s.parseErrors.Load() })
	s.tel.NewUpDownCounter("symbols", func() int64 { return int64(s.reg.Len()) })
}

func (s *Stage) Run(ctx context.Context) {
	// Hacky method to close the connection when the context is done
	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	go s.stats.Run(ctx)

	buf := make([]byte, s.cfg.PayloadSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := s.conn.Read(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				select {
				case <-ctx.Done():
				default:
					s.tel.LogError("failed to read connection", err)
				}

				return
			}

			s.tel.LogError("feed failed to read", err)

			return
		}

		s.handleDatagram(ctx, buf[:n])
	}
}

func (s *Stage) handleDatagram(ctx context.Context, buf []byte) {
	_, span := s.tel.NewTrace(ctx, "receive tick datagram")
	defer span.End()

	now := time.Now()

	ticks := 0
	for _, line := range strings.SplitAfter(string(buf), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		symbol, price, ts, err := parseTick(line, now)
		if err != nil {
			s.parseErrors.Add(1)
			s.tel.LogWarn("dropped tick", "reason", err)
			continue
		}

		s.reg.Get(symbol).PushPair(price, ts)
		ticks++
	}

	span.SetAttributes(
		attribute.Int("payload_size", len(buf)),
		attribute.Int("tick_count", ticks),
	)

	s.receivedDatagrams.Add(1)
	s.receivedTicks.Add(int64(ticks))

	s.stats.AddTicks(ticks)
	s.stats.AddBytes(len(buf))
}

func (s *Stage) Stop() {
	if s.conn != nil {
		s.conn.Close()
	}
}
