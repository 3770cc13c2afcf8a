package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tripplan/internal/model"
	"github.com/theirongolddev/tripplan/internal/planner"
	"github.com/theirongolddev/tripplan/internal/store"
)

type fakeSearcher map[string][]model.Destination

func (f fakeSearcher) SearchByName(_ context.Context, q string) []model.Destination {
	return f[q]
}

type testDaemon struct {
	svc     *Service
	srv     *httptest.Server
	planner *planner.Planner
	bus     *planner.Bus
	store   *store.Gateway
}

func newTestDaemon(t *testing.T) *testDaemon {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "trip.db"))
	require.NoError(t, err)
	g := store.New(db, nil)
	t.Cleanup(func() { _ = g.Close() })

	bus := planner.NewBus()
	p := planner.New(g, planner.Options{Bus: bus, Name: "daemon"})
	svc := New(Config{EventsBuffer: 10}, Deps{
		Planner: p,
		Bus:     bus,
		Searcher: fakeSearcher{
			"Pune": {{Name: "Pune", Country: "India", Lat: 18.52, Lon: 73.85}},
		},
	})
	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)
	return &testDaemon{svc: svc, srv: srv, planner: p, bus: bus, store: g}
}

func (d *testDaemon) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, d.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, Deps{})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPlanLifecycleOverHTTP(t *testing.T) {
	d := newTestDaemon(t)

	resp := d.do(t, http.MethodPost, "/v1/itinerary", `{"name":"Taxi","cost":800}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entry := decode[model.ItineraryEntry](t, resp)
	assert.Equal(t, "Taxi", entry.Name)

	resp = d.do(t, http.MethodPut, "/v1/budget/0", `{"amount":950}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = d.do(t, http.MethodPost, "/v1/budget", `{"name":"Snacks","amount":50}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = d.do(t, http.MethodPost, "/v1/itinerary/0/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[model.ItineraryEntry](t, resp).Completed)

	resp = d.do(t, http.MethodGet, "/v1/plan", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	plan := decode[Plan](t, resp)
	require.Len(t, plan.Itinerary, 1)
	require.Len(t, plan.Budget, 2)
	assert.Equal(t, 950.0, plan.Itinerary[0].CostValue())
	assert.Equal(t, "1000.00", plan.BudgetTotal)
	assert.Equal(t, 1, plan.Completed)

	resp = d.do(t, http.MethodDelete, "/v1/itinerary/0", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = d.do(t, http.MethodGet, "/v1/plan", "")
	plan = decode[Plan](t, resp)
	assert.Empty(t, plan.Itinerary)
	require.Len(t, plan.Budget, 1)
	assert.Equal(t, "Snacks", plan.Budget[0].Name)

	resp = d.do(t, http.MethodDelete, "/v1/budget/0", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = d.do(t, http.MethodDelete, "/v1/plan", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestInputErrorsMapToClientStatus(t *testing.T) {
	d := newTestDaemon(t)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/v1/itinerary", `{"name":"  "}`, http.StatusBadRequest},
		{http.MethodPost, "/v1/itinerary", `not json`, http.StatusBadRequest},
		{http.MethodPost, "/v1/budget", `{"name":"Tea","amount":0}`, http.StatusBadRequest},
		{http.MethodPut, "/v1/budget/5", `{"amount":1}`, http.StatusNotFound},
		{http.MethodDelete, "/v1/budget/x", "", http.StatusNotFound},
		{http.MethodDelete, "/v1/itinerary/0", "", http.StatusNotFound},
		{http.MethodPost, "/v1/itinerary/0/toggle", "", http.StatusNotFound},
		{http.MethodGet, "/v1/suggestions?lat=abc&lon=1", "", http.StatusBadRequest},
		{http.MethodPut, "/v1/destination", `{"name":""}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := d.do(t, tt.method, tt.path, tt.body)
		assert.Equal(t, tt.want, resp.StatusCode, "%s %s", tt.method, tt.path)
	}

	st := decode[Status](t, d.do(t, http.MethodGet, "/v1/status", ""))
	assert.Empty(t, st.LastError, "input errors are not daemon errors")
}

func TestSearchAndSelect(t *testing.T) {
	d := newTestDaemon(t)

	got := decode[[]model.Destination](t, d.do(t, http.MethodGet, "/v1/search?q=Pune", ""))
	require.Len(t, got, 1)

	empty := decode[[]model.Destination](t, d.do(t, http.MethodGet, "/v1/search?q=", ""))
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	body, err := json.Marshal(got[0])
	require.NoError(t, err)
	resp := d.do(t, http.MethodPut, "/v1/destination", string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	st := decode[Status](t, d.do(t, http.MethodGet, "/v1/status", ""))
	assert.Equal(t, "Pune, India", st.Destination)
}

func TestRelayRecordsEventsAndSyncsForeignChanges(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	// Another view sharing the store edits the budget.
	other := planner.New(d.store, planner.Options{Bus: d.bus, Name: "tui"})
	_, err := other.AddEntry(ctx, "Hotel", 100, "", "")
	require.NoError(t, err)
	require.NoError(t, other.EditBudgetAmount(ctx, 0, 140))

	d.svc.relay(ctx, planner.Change{Key: store.KeyBudget, Kind: planner.KindUpdated, Source: "tui", At: time.Now()})

	it := d.planner.Itinerary()
	require.Len(t, it, 1)
	assert.Equal(t, 140.0, it[0].CostValue())

	events := decode[[]Event](t, d.do(t, http.MethodGet, "/v1/events", ""))
	require.Len(t, events, 1)
	assert.Equal(t, "updated", events[0].Type)
	assert.Equal(t, int64(1), events[0].ID)
}

func TestStreamSendsSnapshotThenEvents(t *testing.T) {
	d := newTestDaemon(t)

	req, err := http.NewRequest(http.MethodGet, d.srv.URL+"/v1/stream", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	readEvent := func() string {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		_, err = r.ReadString('\n') // data
		require.NoError(t, err)
		_, err = r.ReadString('\n') // blank
		require.NoError(t, err)
		return strings.TrimSpace(strings.TrimPrefix(line, "event:"))
	}

	assert.Equal(t, "snapshot", readEvent())

	require.Eventually(t, func() bool {
		d.svc.mu.RLock()
		defer d.svc.mu.RUnlock()
		return len(d.svc.subs) == 1
	}, time.Second, 10*time.Millisecond)

	d.svc.publishEvent(Event{ID: 7, Type: "added"})
	assert.Equal(t, "added", readEvent())
}
