// Package daemon serves the trip plan over a local HTTP API and streams
// plan changes to other views.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/tripplan/internal/logging"
	"github.com/theirongolddev/tripplan/internal/model"
	"github.com/theirongolddev/tripplan/internal/planner"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
}

// Searcher resolves destination names. *catalog.Client satisfies it.
type Searcher interface {
	SearchByName(ctx context.Context, query string) []model.Destination
}

// Deps are the collaborators a Service serves.
type Deps struct {
	Planner  *planner.Planner
	Bus      *planner.Bus
	Searcher Searcher
	Logger   *zerolog.Logger
}

// Plan is the full view of the trip served at /v1/plan.
type Plan struct {
	Destination *model.Destination     `json:"destination,omitempty"`
	Itinerary   []model.ItineraryEntry `json:"itinerary"`
	Budget      []model.BudgetEntry    `json:"budget"`
	BudgetTotal string                 `json:"budget_total"`
	Completed   int                    `json:"completed"`
	Suggestions []model.Suggestion     `json:"suggestions"`
	Loading     bool                   `json:"loading"`
}

// Event is emitted for every plan change.
type Event struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Change    *planner.Change `json:"change,omitempty"`
	Plan      *Plan           `json:"plan,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Addr            string    `json:"addr"`
	Destination     string    `json:"destination,omitempty"`
	ItineraryCount  int       `json:"itinerary_count"`
	BudgetCount     int       `json:"budget_count"`
	BudgetTotal     string    `json:"budget_total"`
	RequestCount    int64     `json:"request_count"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	planner *planner.Planner
	bus     *planner.Bus
	search  Searcher
	log     *zerolog.Logger

	mu           sync.RWMutex
	startedAt    time.Time
	requestCount int64
	lastError    string
	nextEventID  int64
	events       []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config, deps Deps) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Service{
		cfg:       cfg,
		planner:   deps.Planner,
		bus:       deps.Bus,
		search:    deps.Searcher,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/plan", s.handlePlan)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("GET /v1/search", s.handleSearch)
	mux.HandleFunc("GET /v1/suggestions", s.handleSuggestions)
	mux.HandleFunc("PUT /v1/destination", s.handleSelect)
	mux.HandleFunc("POST /v1/itinerary", s.handleAddEntry)
	mux.HandleFunc("DELETE /v1/itinerary/{index}", s.handleRemoveEntry)
	mux.HandleFunc("POST /v1/itinerary/{index}/toggle", s.handleToggle)
	mux.HandleFunc("POST /v1/budget", s.handleAddExpense)
	mux.HandleFunc("PUT /v1/budget/{index}", s.handleEditAmount)
	mux.HandleFunc("DELETE /v1/budget/{index}", s.handleRemoveExpense)
	mux.HandleFunc("DELETE /v1/plan", s.handleClear)
	return s.logRequests(mux)
}

// Run starts HTTP endpoints and relays plan changes until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.planner.Load(ctx); err != nil {
		return fmt.Errorf("loading plan: %w", err)
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info().Str("addr", s.cfg.Addr).Msg("daemon listening")

	changes, unsubscribe := s.bus.Subscribe(64)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case c := <-changes:
			s.relay(ctx, c)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// relay reconciles the served planner with c and records it as an event.
// A newly selected destination starts a background suggestion refresh.
func (s *Service) relay(ctx context.Context, c planner.Change) {
	if _, err := s.planner.HandleChange(ctx, c); err != nil {
		s.recordError(err)
	}
	if c.Kind == planner.KindSelected && c.Destination != nil {
		d := *c.Destination
		go s.planner.RefreshSuggestions(ctx, d.Lat, d.Lon)
	}

	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      string(c.Kind),
		Timestamp: c.At,
		Change:    &c,
	}
	s.mu.Unlock()
	s.publishEvent(ev)
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

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
	s.log.Error().Err(err).Msg("daemon error")
}

func (s *Service) plan(ctx context.Context) (Plan, error) {
	if err := s.planner.Load(ctx); err != nil {
		return Plan{}, err
	}
	itinerary := s.planner.Itinerary()
	completed := 0
	for _, e := range itinerary {
		if e.Completed {
			completed++
		}
	}
	p := Plan{
		Itinerary:   itinerary,
		Budget:      s.planner.Budget(),
		BudgetTotal: s.planner.BudgetTotal().StringFixed(2),
		Completed:   completed,
		Suggestions: s.planner.Suggestions(),
		Loading:     s.planner.Loading(),
	}
	if p.Suggestions == nil {
		p.Suggestions = []model.Suggestion{}
	}
	d, ok, err := s.planner.CurrentDestination(ctx)
	if err != nil {
		return Plan{}, err
	}
	if ok {
		p.Destination = &d
	}
	return p, nil
}

func (s *Service) snapshotStatus(ctx context.Context) Status {
	st := Status{StartedAt: s.startedAt, Addr: s.cfg.Addr}
	if p, err := s.plan(ctx); err == nil {
		st.ItineraryCount = len(p.Itinerary)
		st.BudgetCount = len(p.Budget)
		st.BudgetTotal = p.BudgetTotal
		if p.Destination != nil {
			st.Destination = p.Destination.Label()
		}
	} else {
		s.recordError(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	st.RequestCount = s.requestCount
	st.LastError = s.lastError
	st.EventCount = len(s.events)
	st.SubscriberCount = len(s.subs)
	return st
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus(r.Context()))
}

func (s *Service) handlePlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.plan(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send the current plan immediately.
	current := Event{Type: "snapshot", Timestamp: time.Now()}
	if p, err := s.plan(r.Context()); err == nil {
		current.Plan = &p
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
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

// indexParam parses the {index} path value.
func indexParam(r *http.Request) (int, error) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", planner.ErrIndexOutOfRange, r.PathValue("index"))
	}
	return i, nil
}
