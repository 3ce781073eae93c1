// Package daemon serves the current consumption snapshot over HTTP and
// reloads it on an interval.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/pipeline"
	"github.com/theirongolddev/estalvi/internal/rng"
	"github.com/theirongolddev/estalvi/internal/source"
)

// ErrNoSnapshot is returned by handlers before the first successful load.
var ErrNoSnapshot = errors.New("daemon: no snapshot loaded")

// Config controls the daemon runtime behavior.
type Config struct {
	Source       source.Source
	Rand         rng.Source
	Interval     time.Duration
	Addr         string
	EventsBuffer int

	// OnReload, when set, is called with the new status after every reload
	// attempt.
	OnReload func(Status)
}

// Event is emitted on every reload attempt.
type Event struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	SnapshotID string    `json:"snapshot_id,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt        time.Time `json:"started_at"`
	LastLoadAt       time.Time `json:"last_load_at"`
	IntervalSec      int       `json:"interval_sec"`
	LoadCount        int64     `json:"load_count"`
	Source           string    `json:"source"`
	SnapshotID       string    `json:"snapshot_id,omitempty"`
	Rows             int       `json:"rows"`
	InvalidDates     int       `json:"invalid_dates"`
	NonNumericValues int       `json:"non_numeric_values"`
	LastError        string    `json:"last_error,omitempty"`
	EventCount       int       `json:"event_count"`
	SubscriberCount  int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg        Config
	forecaster *forecast.Forecaster
	metrics    *Metrics

	mu          sync.RWMutex
	startedAt   time.Time
	lastLoadAt  time.Time
	loadCount   int64
	lastError   string
	result      *pipeline.LoadResult
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 100
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Rand == nil {
		cfg.Rand = rng.System()
	}

	return &Service{
		cfg:        cfg,
		forecaster: forecast.New(cfg.Rand),
		metrics:    NewMetrics(),
		startedAt:  time.Now(),
		subs:       make(map[int]chan Event),
	}
}

// Run listens on the configured address and calls Serve.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("daemon listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves HTTP on ln and reloads on the configured interval until ctx
// is canceled. Request contexts derive from ctx, so open event streams end
// as soon as shutdown starts.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		// Seed the first snapshot so status is useful immediately.
		_ = s.Reload(ctx)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				_ = s.Reload(ctx)
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Handler builds the routed, logged HTTP handler.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	route := func(path string, h http.HandlerFunc, methods ...string) {
		r.Handle(path, s.metrics.WrapHandler(path, h)).Methods(methods...)
	}

	route("/healthz", s.handleHealth, http.MethodGet)
	route("/v1/status", s.handleStatus, http.MethodGet)
	route("/v1/snapshot", s.handleSnapshot, http.MethodGet)
	route("/v1/summary", s.handleSummary, http.MethodGet)
	route("/v1/predict", s.handlePredict, http.MethodGet)
	route("/v1/savings", s.handleSavings, http.MethodGet)
	route("/v1/events", s.handleEvents, http.MethodGet)
	route("/v1/stream", s.handleStream, http.MethodGet)
	route("/v1/reload", s.handleReload, http.MethodPost)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)
	return handlers.LoggingHandler(os.Stderr, cors(r))
}

// Reload fetches and rebuilds the snapshot. On failure the previous
// snapshot stays in place and the error is recorded.
func (s *Service) Reload(ctx context.Context) error {
	start := time.Now()
	res, err := pipeline.Load(ctx, s.cfg.Source, pipeline.Options{Rand: s.cfg.Rand})
	now := time.Now()

	s.mu.Lock()
	s.lastLoadAt = now
	s.loadCount++
	s.nextEventID++
	ev := Event{ID: s.nextEventID, Timestamp: now}
	if err != nil {
		s.lastError = err.Error()
		ev.Type = "reload_error"
		ev.Error = err.Error()
	} else {
		s.lastError = ""
		s.result = res
		ev.Type = "reload"
		ev.SnapshotID = res.Snapshot.ID
	}
	s.mu.Unlock()

	if err != nil {
		s.metrics.ReloadFailed(time.Since(start))
		log.Printf("estalvi daemon reload error: %v", err)
	} else {
		s.metrics.ReloadSucceeded(res.Snapshot, time.Since(start))
		if res.InvalidDates > 0 || res.NonNumericValues > 0 {
			log.Printf("estalvi daemon: %d rows, %d invalid dates, %d non-numeric values",
				res.Rows, res.InvalidDates, res.NonNumericValues)
		}
	}

	s.publishEvent(ev)
	if s.cfg.OnReload != nil {
		s.cfg.OnReload(s.status())
	}
	return err
}

// Snapshot returns the current snapshot, or ErrNoSnapshot.
func (s *Service) Snapshot() (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return nil, ErrNoSnapshot
	}
	return s.result.Snapshot, nil
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:       s.startedAt,
		LastLoadAt:      s.lastLoadAt,
		IntervalSec:     int(s.cfg.Interval.Seconds()),
		LoadCount:       s.loadCount,
		Source:          s.cfg.Source.Name(),
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
	if s.result != nil {
		st.SnapshotID = s.result.Snapshot.ID
		st.Rows = s.result.Rows
		st.InvalidDates = s.result.InvalidDates
		st.NonNumericValues = s.result.NonNumericValues
	}
	return st
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
