package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fcurrie/serpentine-led-golang/internal/display"
	"github.com/fcurrie/serpentine-led-golang/internal/metrics"
	"github.com/fcurrie/serpentine-led-golang/internal/protocol"
	"github.com/fcurrie/serpentine-led-golang/internal/types"
)

const (
	// DefaultMaxElements bounds the geometry a Setup may ask for
	DefaultMaxElements = 65536

	acceptBackoff = 100 * time.Millisecond
)

// Config holds the server settings
type Config struct {
	// ReadTimeout bounds the wait for each message, zero waits forever
	ReadTimeout time.Duration
	MaxElements int
	Patterns    display.Options
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithMetrics sets the metrics collector
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// Server serves the matrix protocol to one connection at a time. The
// configured matrix belongs to the server and survives across connections
// until a Setup replaces it.
type Server struct {
	cfg     Config
	open    types.DriverFactory
	log     *slog.Logger
	metrics *metrics.Collector

	mu          sync.Mutex
	matrix      *display.Matrix
	conn        net.Conn
	connectedAt time.Time
}

// New creates a server that opens drivers through open
func New(cfg Config, open types.DriverFactory, opts ...Option) *Server {
	if cfg.MaxElements <= 0 {
		cfg.MaxElements = DefaultMaxElements
	}

	s := &Server{
		cfg:  cfg,
		open: open,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	return s
}

// Serve accepts connections from ln and serves each to completion before
// accepting the next. It returns nil once ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.log.Info("listening", "addr", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.log.Error("failed to accept connection", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(acceptBackoff):
			}
			continue
		}

		s.ServeConn(ctx, conn)
	}
}

// ServeConn runs one protocol session on conn and closes it. The matrix is
// cleared on the way out whatever ended the session. The returned error is
// the cause, nil when the peer closed cleanly.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) error {
	log := s.log.With("remote", conn.RemoteAddr().String())
	s.setConn(conn)
	s.metrics.Connections.Inc()
	s.metrics.Active.Set(1)
	log.Info("connected")

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	err := s.session(ctx, conn, log)
	stop()

	s.cleanup(conn, log, err)
	return err
}

func (s *Server) session(ctx context.Context, conn net.Conn, log *slog.Logger) error {
	dec := protocol.NewDecoder(conn, s.maxPayload())
	for {
		if s.cfg.ReadTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
				return fmt.Errorf("failed to set read deadline: %w", err)
			}
		}

		msg, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		s.metrics.Messages.WithLabelValues(msg.Type().String()).Inc()

		if err := s.dispatch(ctx, msg, log); err != nil {
			reason, ok := rejection(err)
			if !ok {
				return err
			}
			s.metrics.Rejected.WithLabelValues(reason).Inc()
			log.Warn("rejected message", "type", msg.Type().String(), "error", err)
		}
	}
}

func (s *Server) cleanup(conn net.Conn, log *slog.Logger, cause error) {
	if m := s.current(); m != nil {
		if err := m.Clear(); err != nil {
			log.Error("failed to clear matrix", "error", err)
		}
	}
	conn.Close()

	s.setConn(nil)
	s.metrics.Active.Set(0)
	s.metrics.Disconnects.WithLabelValues(disconnectCause(cause)).Inc()
	if cause != nil {
		log.Warn("connection closed", "error", cause)
		return
	}
	log.Info("connection closed")
}

func (s *Server) dispatch(ctx context.Context, msg protocol.Message, log *slog.Logger) error {
	switch msg := msg.(type) {
	case protocol.Setup:
		return s.setup(msg, log)
	case protocol.ImageData:
		return s.image(msg)
	case protocol.TestPattern:
		return s.pattern(ctx, msg, log)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMessage, uint32(msg.Type()))
	}
}

// setup replaces the matrix. The previous one is closed before the new
// driver is opened since both usually share the same hardware. When the new
// geometry is smaller the old one is cleared first, otherwise the elements
// past the new count would stay lit.
func (s *Server) setup(msg protocol.Setup, log *slog.Logger) error {
	elements := uint64(msg.Rows) * uint64(msg.Cols)
	if elements == 0 || elements > uint64(s.cfg.MaxElements) {
		return fmt.Errorf("%w: %dx%d, limit %d elements",
			ErrInvalidGeometry, msg.Rows, msg.Cols, s.cfg.MaxElements)
	}
	geom := display.Geometry{Rows: int(msg.Rows), Cols: int(msg.Cols)}

	s.mu.Lock()
	old := s.matrix
	s.matrix = nil
	s.mu.Unlock()
	s.metrics.Elements.Set(0)

	if old != nil {
		if old.Geometry().Elements() > geom.Elements() {
			if err := old.Clear(); err != nil {
				log.Warn("failed to clear previous matrix", "error", err)
			}
		}
		if err := old.Close(); err != nil {
			log.Warn("failed to close previous matrix", "error", err)
		}
	}

	m, err := display.NewMatrix(geom, s.open, s.cfg.Patterns)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.matrix = m
	s.mu.Unlock()
	s.metrics.Elements.Set(float64(geom.Elements()))

	log.Info("configured matrix", "rows", geom.Rows, "cols", geom.Cols)
	return nil
}

func (s *Server) image(msg protocol.ImageData) error {
	m := s.current()
	if m == nil {
		return ErrUnconfigured
	}

	geom := m.Geometry()
	if msg.Skipped() || int(msg.Size) != geom.FrameSize() {
		return &PayloadSizeError{Got: int(msg.Size), Want: geom.FrameSize()}
	}
	frame, err := display.NewFrameBuffer(geom, msg.Payload)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := m.Render(frame); err != nil {
		return err
	}
	s.metrics.RenderSeconds.Observe(time.Since(start).Seconds())
	s.metrics.Frames.Inc()
	return nil
}

func (s *Server) pattern(ctx context.Context, msg protocol.TestPattern, log *slog.Logger) error {
	var name string
	switch msg.Code {
	case protocol.PatternRGBSweep:
		name = "rgb_sweep"
	case protocol.PatternRainbowSweep:
		name = "rainbow_sweep"
	default:
		return fmt.Errorf("%w: code %d", ErrUnknownPattern, msg.Code)
	}

	m := s.current()
	if m == nil {
		return ErrUnconfigured
	}

	log.Info("running test pattern", "pattern", name)
	var err error
	if msg.Code == protocol.PatternRGBSweep {
		err = m.TestPattern(ctx, display.RGBSweep)
	} else {
		err = m.RainbowSweep(ctx)
	}
	if err != nil {
		return err
	}
	s.metrics.Patterns.WithLabelValues(name).Inc()
	return nil
}

// Status reports the connection and matrix state
func (s *Server) Status() types.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := types.Status{State: types.StateIdle}
	if s.conn != nil {
		st.State = types.StateConnected
		st.Remote = s.conn.RemoteAddr().String()
		st.ConnectedAt = s.connectedAt
	}
	if s.matrix != nil {
		g := s.matrix.Geometry()
		st.Configured = true
		st.Rows = g.Rows
		st.Cols = g.Cols
		st.Elements = g.Elements()
	}
	return st
}

// Close clears and releases the current matrix. Call it once Serve has
// returned.
func (s *Server) Close() error {
	s.mu.Lock()
	m := s.matrix
	s.matrix = nil
	s.mu.Unlock()

	if m == nil {
		return nil
	}
	s.metrics.Elements.Set(0)
	return errors.Join(m.Clear(), m.Close())
}

func (s *Server) current() *display.Matrix {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matrix
}

func (s *Server) setConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
	if conn != nil {
		s.connectedAt = time.Now()
	} else {
		s.connectedAt = time.Time{}
	}
}

func (s *Server) maxPayload() uint32 {
	n := uint64(s.cfg.MaxElements) * 3
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
